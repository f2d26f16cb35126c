package profiles

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vudials/vudials-go/internal/logger"
	"github.com/vudials/vudials-go/internal/storage"
	"github.com/vudials/vudials-go/pkg/httpclient"
	"github.com/vudials/vudials-go/pkg/vudials"
)

// DialAPI is the subset of *vudials.DialClient the applier drives.
type DialAPI interface {
	SetDialName(ctx context.Context, uid, name string, opts ...vudials.CallOption) (httpclient.Response, error)
	SetDialEasing(ctx context.Context, uid string, period, step int, opts ...vudials.CallOption) (httpclient.Response, error)
	SetBacklightEasing(ctx context.Context, uid string, period, step int, opts ...vudials.CallOption) (httpclient.Response, error)
	SetDialValue(ctx context.Context, uid string, value int, opts ...vudials.CallOption) (httpclient.Response, error)
	SetDialColor(ctx context.Context, uid string, red, green, blue int, opts ...vudials.CallOption) (httpclient.Response, error)
	SetDialBackground(ctx context.Context, uid, filePath string, opts ...vudials.CallOption) (httpclient.Response, error)
}

// Result summarizes an Apply run.
type Result struct {
	Applied            int
	Failed             int
	UploadedImages     int
	SkippedBackgrounds int
}

// Applier pushes profiles to dials.
type Applier struct {
	dials DialAPI
	store storage.Store
	log   logger.Logger
}

// NewApplier wires an applier. A nil store disables upload tracking.
func NewApplier(dials DialAPI, store storage.Store, log logger.Logger) *Applier {
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Applier{dials: dials, store: store, log: log}
}

// Apply pushes every profile in order: name, easing, value, color, background.
// A failing dial does not stop the others; all failures are joined.
// With force set, backgrounds are uploaded even if the ledger has seen them.
func (a *Applier) Apply(ctx context.Context, profiles []Profile, force bool) (Result, error) {
	var (
		res  Result
		errs []error
	)
	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		uploaded, skipped, err := a.applyOne(ctx, p, force)
		if uploaded {
			res.UploadedImages++
		}
		if skipped {
			res.SkippedBackgrounds++
		}
		if err != nil {
			res.Failed++
			errs = append(errs, fmt.Errorf("dial %s: %w", p.UID, err))
			a.log.ErrorObj("dial profile apply failed", "profile_error", map[string]any{
				"uid":   p.UID,
				"error": err.Error(),
			})
			continue
		}
		res.Applied++
		a.log.InfoObj("dial profile applied", "profile_result", map[string]any{
			"uid":                p.UID,
			"background_skipped": skipped,
		})
	}
	return res, errors.Join(errs...)
}

func (a *Applier) applyOne(ctx context.Context, p Profile, force bool) (uploaded, skipped bool, err error) {
	if p.Name != "" {
		if _, err := a.dials.SetDialName(ctx, p.UID, p.Name); err != nil {
			return false, false, fmt.Errorf("set name: %w", err)
		}
	}
	if p.Easing != nil {
		if e := p.Easing.Dial; e != nil {
			if _, err := a.dials.SetDialEasing(ctx, p.UID, e.Period, e.Step); err != nil {
				return false, false, fmt.Errorf("set dial easing: %w", err)
			}
		}
		if e := p.Easing.Backlight; e != nil {
			if _, err := a.dials.SetBacklightEasing(ctx, p.UID, e.Period, e.Step); err != nil {
				return false, false, fmt.Errorf("set backlight easing: %w", err)
			}
		}
	}
	if p.Value != nil {
		if _, err := a.dials.SetDialValue(ctx, p.UID, *p.Value); err != nil {
			return false, false, fmt.Errorf("set value: %w", err)
		}
	}
	if c := p.Color; c != nil {
		if _, err := a.dials.SetDialColor(ctx, p.UID, c.Red, c.Green, c.Blue); err != nil {
			return false, false, fmt.Errorf("set color: %w", err)
		}
	}
	if p.Background == "" {
		return false, false, nil
	}
	return a.applyBackground(ctx, p.UID, p.Background, force)
}

func (a *Applier) applyBackground(ctx context.Context, uid, path string, force bool) (uploaded, skipped bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, false, &vudials.UploadFileError{Path: path, Err: err}
	}
	digest := storage.Digest(content)

	if !force {
		seen, err := a.store.SeenUpload(uid, digest)
		if err != nil {
			a.log.WarnObj("upload ledger lookup failed", "storage_error", map[string]any{
				"uid":   uid,
				"error": err.Error(),
			})
		}
		if seen {
			return false, true, nil
		}
	}

	if _, err := a.dials.SetDialBackground(ctx, uid, path); err != nil {
		// The dial may hold a partial image now.
		if ferr := a.store.ForgetDial(uid); ferr != nil {
			a.log.WarnObj("upload ledger forget failed", "storage_error", ferr.Error())
		}
		return false, false, fmt.Errorf("set background: %w", err)
	}

	if err := a.store.MarkUpload(storage.Upload{
		DialUID:  uid,
		Digest:   digest,
		FileName: filepath.Base(path),
	}); err != nil {
		a.log.WarnObj("upload ledger update failed", "storage_error", map[string]any{
			"uid":   uid,
			"error": err.Error(),
		})
	}
	return true, false, nil
}
