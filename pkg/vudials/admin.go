package vudials

import (
	"context"

	"github.com/vudials/vudials-go/pkg/httpclient"
)

const (
	methodGet  = "get"
	methodPost = "post"
)

// AdminClient manages API keys and provisioning using the admin key.
type AdminClient struct {
	baseURL  string
	adminKey string
	exec     *Executor
}

// NewAdminClient returns an admin client for http://{address}:{port}.
func NewAdminClient(address string, port int, adminKey string, opts ...Option) *AdminClient {
	o := buildOptions(opts)
	return &AdminClient{
		baseURL:  BaseURL(address, port),
		adminKey: adminKey,
		exec:     NewExecutor(o.httpClient, o.timeout, o.log),
	}
}

// BaseURL returns the server base URL the client was built with.
func (c *AdminClient) BaseURL() string { return c.baseURL }

func (c *AdminClient) call(ctx context.Context, path, method string, params []queryParam, opts []CallOption) (httpclient.Response, error) {
	return c.exec.ExecuteMethod(ctx, BuildAdminURL(c.baseURL, c.adminKey, path, extraQuery(params...)), method, opts...)
}

// ProvisionDials triggers hardware discovery of newly attached dials.
func (c *AdminClient) ProvisionDials(ctx context.Context, opts ...CallOption) (httpclient.Response, error) {
	return c.call(ctx, "dial/provision", methodGet, nil, opts)
}

// ListAPIKeys lists every API key known to the server.
func (c *AdminClient) ListAPIKeys(ctx context.Context, opts ...CallOption) (httpclient.Response, error) {
	return c.call(ctx, "admin/keys/list", methodGet, nil, opts)
}

// RemoveAPIKey deletes targetKey.
func (c *AdminClient) RemoveAPIKey(ctx context.Context, targetKey string, opts ...CallOption) (httpclient.Response, error) {
	return c.call(ctx, "admin/keys/remove", methodGet, []queryParam{strParam("key", targetKey)}, opts)
}

// CreateAPIKey creates a key called name scoped to dials, a comma separated
// list of dial uids.
func (c *AdminClient) CreateAPIKey(ctx context.Context, name, dials string, opts ...CallOption) (httpclient.Response, error) {
	return c.call(ctx, "admin/keys/create", methodPost, []queryParam{
		strParam("name", name),
		strParam("dials", dials),
	}, opts)
}

// UpdateAPIKey changes the name and dial scope of targetKey.
func (c *AdminClient) UpdateAPIKey(ctx context.Context, name, targetKey, dials string, opts ...CallOption) (httpclient.Response, error) {
	return c.call(ctx, "admin/keys/update", methodGet, []queryParam{
		strParam("key", targetKey),
		strParam("name", name),
		strParam("dials", dials),
	}, opts)
}
