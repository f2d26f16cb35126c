package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vudials/vudials-go/internal/app"
	"github.com/vudials/vudials-go/internal/config"
	"github.com/vudials/vudials-go/internal/logger"
	"github.com/vudials/vudials-go/pkg/httpclient"
	"github.com/vudials/vudials-go/pkg/vudials"
)

// Values pushed by the demo command.
const (
	demoValue = 35
	demoRed   = 70
	demoGreen = 35
	demoBlue  = 70
)

type cliEnv struct {
	cfg    *config.Config
	log    logger.Logger
	stdout io.Writer
	stderr io.Writer
}

func (e *cliEnv) dials() (*vudials.DialClient, error) { return app.NewDialClient(e.cfg, e.log) }
func (e *cliEnv) admin() (*vudials.AdminClient, error) { return app.NewAdminClient(e.cfg, e.log) }

func (e *cliEnv) print(resp httpclient.Response) {
	body := resp.Body()
	_, _ = e.stdout.Write(body)
	if len(body) == 0 || body[len(body)-1] != '\n' {
		fmt.Fprintln(e.stdout)
	}
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *cliEnv, args []string) error
}

var commands = []command{
	{"list", "list dials visible to the API key", runList},
	{"status", "show one dial's status", dialCall(func(ctx context.Context, c *vudials.DialClient, uid string) (httpclient.Response, error) {
		return c.GetDialInfo(ctx, uid)
	})},
	{"set-value", "move a dial's needle (-value)", runSetValue},
	{"set-color", "set a dial's backlight (-red -green -blue)", runSetColor},
	{"set-background", "upload a background image (-file)", runSetBackground},
	{"image-crc", "show the background image checksum", dialCall(func(ctx context.Context, c *vudials.DialClient, uid string) (httpclient.Response, error) {
		return c.GetDialImageCRC(ctx, uid)
	})},
	{"set-name", "rename a dial (-name)", runSetName},
	{"reload", "reload a dial's hardware info", dialCall(func(ctx context.Context, c *vudials.DialClient, uid string) (httpclient.Response, error) {
		return c.ReloadHWInfo(ctx, uid)
	})},
	{"dial-easing", "set needle easing (-period -step)", runEasing(false)},
	{"backlight-easing", "set backlight easing (-period -step)", runEasing(true)},
	{"easing", "show a dial's easing config", dialCall(func(ctx context.Context, c *vudials.DialClient, uid string) (httpclient.Response, error) {
		return c.GetEasingConfig(ctx, uid)
	})},
	{"provision", "provision newly attached dials (admin)", runProvision},
	{"keys", "list API keys (admin)", runListKeys},
	{"create-key", "create an API key (admin; -name -dials)", runCreateKey},
	{"update-key", "update an API key (admin; -key -name -dials)", runUpdateKey},
	{"remove-key", "remove an API key (admin; -key)", runRemoveKey},
	{"apply", "push the dial profiles file (-force re-uploads backgrounds)", runApply},
	{"demo", "set the target dial to 35 with a purple backlight", runDemo},
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: vudials <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	byName := make(map[string]command, len(commands))
	for _, c := range commands {
		names = append(names, c.name)
		byName[c.name] = c
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-18s %s\n", n, byName[n].summary)
	}
}

func newFlagSet(env *cliEnv, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	return fs
}

func uidFlag(fs *flag.FlagSet, env *cliEnv) *string {
	return fs.String("uid", env.cfg.TargetDialUID, "dial uid (defaults to TARGET_DIAL_UID)")
}

func requireUID(uid string) error {
	if strings.TrimSpace(uid) == "" {
		return errors.New("-uid is required (or set TARGET_DIAL_UID)")
	}
	return nil
}

func dialCall(fn func(ctx context.Context, c *vudials.DialClient, uid string) (httpclient.Response, error)) func(context.Context, *cliEnv, []string) error {
	return func(ctx context.Context, env *cliEnv, args []string) error {
		fs := newFlagSet(env, "dial")
		uid := uidFlag(fs, env)
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := requireUID(*uid); err != nil {
			return err
		}
		c, err := env.dials()
		if err != nil {
			return err
		}
		resp, err := fn(ctx, c, *uid)
		if err != nil {
			return err
		}
		env.print(resp)
		return nil
	}
}

func runList(ctx context.Context, env *cliEnv, args []string) error {
	if err := newFlagSet(env, "list").Parse(args); err != nil {
		return err
	}
	c, err := env.dials()
	if err != nil {
		return err
	}
	resp, err := c.ListDials(ctx)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runSetValue(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "set-value")
	uid := uidFlag(fs, env)
	value := fs.Int("value", 0, "needle position")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireUID(*uid); err != nil {
		return err
	}
	c, err := env.dials()
	if err != nil {
		return err
	}
	resp, err := c.SetDialValue(ctx, *uid, *value)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runSetColor(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "set-color")
	uid := uidFlag(fs, env)
	red := fs.Int("red", 0, "red channel")
	green := fs.Int("green", 0, "green channel")
	blue := fs.Int("blue", 0, "blue channel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireUID(*uid); err != nil {
		return err
	}
	c, err := env.dials()
	if err != nil {
		return err
	}
	resp, err := c.SetDialColor(ctx, *uid, *red, *green, *blue)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runSetBackground(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "set-background")
	uid := uidFlag(fs, env)
	file := fs.String("file", "", "image file to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireUID(*uid); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}
	c, err := env.dials()
	if err != nil {
		return err
	}
	resp, err := c.SetDialBackground(ctx, *uid, *file)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runSetName(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "set-name")
	uid := uidFlag(fs, env)
	name := fs.String("name", "", "new dial name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireUID(*uid); err != nil {
		return err
	}
	c, err := env.dials()
	if err != nil {
		return err
	}
	resp, err := c.SetDialName(ctx, *uid, *name)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runEasing(backlight bool) func(context.Context, *cliEnv, []string) error {
	return func(ctx context.Context, env *cliEnv, args []string) error {
		fs := newFlagSet(env, "easing")
		uid := uidFlag(fs, env)
		period := fs.Int("period", 50, "easing period")
		step := fs.Int("step", 5, "easing step")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := requireUID(*uid); err != nil {
			return err
		}
		c, err := env.dials()
		if err != nil {
			return err
		}
		set := c.SetDialEasing
		if backlight {
			set = c.SetBacklightEasing
		}
		resp, err := set(ctx, *uid, *period, *step)
		if err != nil {
			return err
		}
		env.print(resp)
		return nil
	}
}

func runProvision(ctx context.Context, env *cliEnv, args []string) error {
	if err := newFlagSet(env, "provision").Parse(args); err != nil {
		return err
	}
	c, err := env.admin()
	if err != nil {
		return err
	}
	resp, err := c.ProvisionDials(ctx)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runListKeys(ctx context.Context, env *cliEnv, args []string) error {
	if err := newFlagSet(env, "keys").Parse(args); err != nil {
		return err
	}
	c, err := env.admin()
	if err != nil {
		return err
	}
	resp, err := c.ListAPIKeys(ctx)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runCreateKey(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "create-key")
	name := fs.String("name", "", "key name")
	dials := fs.String("dials", "", "comma separated dial uids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := env.admin()
	if err != nil {
		return err
	}
	resp, err := c.CreateAPIKey(ctx, *name, *dials)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runUpdateKey(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "update-key")
	key := fs.String("key", "", "key to update")
	name := fs.String("name", "", "key name")
	dials := fs.String("dials", "", "comma separated dial uids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := env.admin()
	if err != nil {
		return err
	}
	resp, err := c.UpdateAPIKey(ctx, *name, *key, *dials)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runRemoveKey(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "remove-key")
	key := fs.String("key", "", "key to remove")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := env.admin()
	if err != nil {
		return err
	}
	resp, err := c.RemoveAPIKey(ctx, *key)
	if err != nil {
		return err
	}
	env.print(resp)
	return nil
}

func runApply(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "apply")
	force := fs.Bool("force", false, "upload backgrounds even if unchanged")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := app.ApplyProfiles(ctx, env.cfg, env.log, *force)
	fmt.Fprintf(env.stdout, "applied=%d failed=%d uploaded=%d skipped=%d\n",
		res.Applied, res.Failed, res.UploadedImages, res.SkippedBackgrounds)
	return err
}

func runDemo(ctx context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "demo")
	uid := uidFlag(fs, env)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireUID(*uid); err != nil {
		return err
	}
	c, err := env.dials()
	if err != nil {
		return err
	}
	resp, err := c.SetDialValue(ctx, *uid, demoValue)
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	env.print(resp)
	resp, err = c.SetDialColor(ctx, *uid, demoRed, demoGreen, demoBlue)
	if err != nil {
		return fmt.Errorf("set color: %w", err)
	}
	env.print(resp)
	return nil
}
