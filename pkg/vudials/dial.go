package vudials

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/vudials/vudials-go/pkg/httpclient"
)

// DialClient drives dials using a dial API key.
type DialClient struct {
	baseURL string
	apiKey  string
	exec    *Executor
}

// NewDialClient returns a client for http://{address}:{port} using apiKey.
func NewDialClient(address string, port int, apiKey string, opts ...Option) *DialClient {
	o := buildOptions(opts)
	return &DialClient{
		baseURL: BaseURL(address, port),
		apiKey:  apiKey,
		exec:    NewExecutor(o.httpClient, o.timeout, o.log),
	}
}

// BaseURL returns the server base URL the client was built with.
func (c *DialClient) BaseURL() string { return c.baseURL }

func (c *DialClient) get(ctx context.Context, path string, params []queryParam, opts []CallOption) (httpclient.Response, error) {
	return c.exec.Execute(ctx, BuildDialURL(c.baseURL, c.apiKey, path, extraQuery(params...)), nil, opts...)
}

// ListDials lists the dials visible to the API key.
func (c *DialClient) ListDials(ctx context.Context, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, "dial/list", nil, opts)
}

// GetDialInfo returns the status of one dial.
func (c *DialClient) GetDialInfo(ctx context.Context, uid string, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "status"), nil, opts)
}

// SetDialValue moves the needle. The value is passed through unchecked.
func (c *DialClient) SetDialValue(ctx context.Context, uid string, value int, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "set"), []queryParam{intParam("value", value)}, opts)
}

// SetDialColor sets the backlight color.
func (c *DialClient) SetDialColor(ctx context.Context, uid string, red, green, blue int, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "backlight"), []queryParam{
		intParam("red", red),
		intParam("green", green),
		intParam("blue", blue),
	}, opts)
}

// SetDialBackground uploads the image at filePath as the dial background.
// The file is read in full first; if that fails an *UploadFileError is
// returned and nothing is sent.
func (c *DialClient) SetDialBackground(ctx context.Context, uid, filePath string, opts ...CallOption) (httpclient.Response, error) {
	part, err := readImageFile(filePath)
	if err != nil {
		return nil, err
	}
	u := BuildDialURL(c.baseURL, c.apiKey, dialPath(uid, "image/set"), "")
	return c.exec.Execute(ctx, u, part, opts...)
}

// GetDialImageCRC returns the checksum of the current background image.
func (c *DialClient) GetDialImageCRC(ctx context.Context, uid string, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "image/crc"), nil, opts)
}

// SetDialName renames a dial.
func (c *DialClient) SetDialName(ctx context.Context, uid, name string, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "name"), []queryParam{strParam("name", name)}, opts)
}

// ReloadHWInfo asks the server to re-read the dial's hardware information.
func (c *DialClient) ReloadHWInfo(ctx context.Context, uid string, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "reload"), nil, opts)
}

// SetDialEasing tunes needle easing.
func (c *DialClient) SetDialEasing(ctx context.Context, uid string, period, step int, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "easing/dial"), []queryParam{
		intParam("period", period),
		intParam("step", step),
	}, opts)
}

// SetBacklightEasing tunes backlight easing.
func (c *DialClient) SetBacklightEasing(ctx context.Context, uid string, period, step int, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "easing/backlight"), []queryParam{
		intParam("period", period),
		intParam("step", step),
	}, opts)
}

// GetEasingConfig returns the dial and backlight easing settings.
func (c *DialClient) GetEasingConfig(ctx context.Context, uid string, opts ...CallOption) (httpclient.Response, error) {
	return c.get(ctx, dialPath(uid, "easing/get"), nil, opts)
}

func readImageFile(path string) (*httpclient.FilePart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UploadFileError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &UploadFileError{Path: path, Err: err}
	}
	return &httpclient.FilePart{
		Field:    imageField,
		FileName: filepath.Base(path),
		Content:  data,
	}, nil
}
