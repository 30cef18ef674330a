package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/shhhinnovations/cryptokit/bootstrap"
	"github.com/shhhinnovations/cryptokit/config"
	apperrors "github.com/shhhinnovations/cryptokit/errors"
	"github.com/shhhinnovations/cryptokit/hmactoken"
	"github.com/shhhinnovations/cryptokit/logger"
	"github.com/shhhinnovations/cryptokit/util"
	"github.com/shhhinnovations/cryptokit/version"
)

var (
	// errUsage marks errors already explained by the flag set.
	errUsage = errors.New("usage")
	// errHelp stops a command after its --help output.
	errHelp = errors.New("help requested")
)

// errVerifyFailed is returned by verify for Expired and Invalid results.
var errVerifyFailed = errors.New("token verification failed")

// configFlags are shared by every command that loads configuration.
type configFlags struct {
	file      string
	envFile   string
	envPrefix string
}

func (c *configFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&c.file, "config", "c", "", "config file (default: search standard locations)")
	fs.StringVar(&c.envFile, "env-file", "", ".env file (default: search standard locations)")
	fs.StringVar(&c.envPrefix, "env-prefix", "", "prefix for environment variable names")
}

func (c *configFlags) load() (*config.Config, error) {
	return config.Load(
		config.WithConfigFile(c.file),
		config.WithEnvFile(c.envFile),
		config.WithEnvPrefix(c.envPrefix),
		config.WithLoaderLogger(logger.Nop()),
	)
}

func newFlagSet(env *cliEnv, name, args string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.Usage = func() {
		fmt.Fprintf(env.stderr, "Usage: cryptokit %s [flags] %s\n\nFlags:\n", name, args)
		fs.PrintDefaults()
	}
	return fs
}

// parse parses args into fs. pflag prints nothing on a parse error under
// ContinueOnError, so the error and usage are written here.
func (env *cliEnv) parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return errHelp
		}
		fmt.Fprintf(env.stderr, "error: %v\n", err)
		fs.Usage()
		return errUsage
	}
	return nil
}

// taskApp builds an App for a one-shot command. Logs go to stderr at warn
// so stdout carries only the result.
func taskApp(ctx context.Context, env *cliEnv, cf *configFlags) (*bootstrap.App, error) {
	cfg, err := cf.load()
	if err != nil {
		return nil, err
	}
	log := logger.NewWithWriter(&logger.Config{Level: "warn", Format: "console", NoColor: true}, cfg.Name, env.stderr)
	logger.SetGlobalLogger(log)
	return bootstrap.NewApp(ctx, cfg, bootstrap.WithLogger(log))
}

// inputText returns the first positional argument, or stdin without its
// trailing newline when there is none or it is "-".
func inputText(env *cliEnv, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(env.stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

func cmdEncrypt(ctx context.Context, env *cliEnv, args []string) error {
	return cipherCommand(ctx, env, "encrypt", args, func(app *bootstrap.App, salt, text string) (string, error) {
		return app.Crypto.Encrypt(salt, text)
	})
}

func cmdDecrypt(ctx context.Context, env *cliEnv, args []string) error {
	return cipherCommand(ctx, env, "decrypt", args, func(app *bootstrap.App, salt, text string) (string, error) {
		return app.Crypto.Decrypt(salt, text)
	})
}

func cipherCommand(ctx context.Context, env *cliEnv, name string, args []string,
	op func(app *bootstrap.App, salt, text string) (string, error)) error {
	var cf configFlags
	var salt string
	fs := newFlagSet(env, name, "[text|-]")
	cf.register(fs)
	fs.StringVarP(&salt, "salt", "s", "", "salt bound to the ciphertext")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	text, err := inputText(env, fs.Args())
	if err != nil {
		return err
	}
	app, err := taskApp(ctx, env, &cf)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(context.Context) error {
		out, err := op(app, salt, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.stdout, out)
		return nil
	})
}

func cmdSign(ctx context.Context, env *cliEnv, args []string) error {
	var cf configFlags
	var salt, data, expires string
	var ttl time.Duration
	fs := newFlagSet(env, "sign", "")
	cf.register(fs)
	fs.StringVarP(&salt, "salt", "s", "", "token salt")
	fs.StringVarP(&data, "data", "d", "", "data the token vouches for")
	fs.DurationVar(&ttl, "ttl", 0, "token lifetime (default: hmac.ttl)")
	fs.StringVar(&expires, "expires", "", "absolute expiry as RFC 3339; overrides --ttl")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	app, err := taskApp(ctx, env, &cf)
	if err != nil {
		return err
	}
	tokens, err := requireTokens(app)
	if err != nil {
		return err
	}

	var expiry time.Time
	switch {
	case expires != "":
		expiry, err = time.Parse(time.RFC3339, expires)
		if err != nil {
			return apperrors.InvalidInput("expires", "must be RFC 3339").WithCause(err)
		}
	case ttl < 0:
		return apperrors.InvalidInput("ttl", "must be positive")
	default:
		expiry = time.Now().Add(util.Coalesce(ttl, app.Cfg.HMAC.TTL))
	}

	return app.RunTask(ctx, func(context.Context) error {
		fmt.Fprintln(env.stdout, tokens.ComputeHash(salt, data, expiry))
		return nil
	})
}

func cmdVerify(ctx context.Context, env *cliEnv, args []string) error {
	var cf configFlags
	var salt, data, token string
	fs := newFlagSet(env, "verify", "")
	cf.register(fs)
	fs.StringVarP(&salt, "salt", "s", "", "token salt")
	fs.StringVarP(&data, "data", "d", "", "data the token vouches for")
	fs.StringVarP(&token, "token", "t", "", "token to check")
	if err := env.parse(fs, args); err != nil {
		return err
	}

	app, err := taskApp(ctx, env, &cf)
	if err != nil {
		return err
	}
	tokens, err := requireTokens(app)
	if err != nil {
		return err
	}

	return app.RunTask(ctx, func(context.Context) error {
		r := tokens.VerifyHash(salt, data, token)
		fmt.Fprintln(env.stdout, r)
		if r != hmactoken.OK {
			return errVerifyFailed
		}
		return nil
	})
}

func requireTokens(app *bootstrap.App) (*hmactoken.Service, error) {
	if app.Tokens == nil {
		return nil, apperrors.MissingField(config.EnvName("", "hmac.key"))
	}
	return app.Tokens, nil
}

func cmdMD5(_ context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "md5", "[text|-]")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	text, err := inputText(env, fs.Args())
	if err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, util.MD5Hex(text))
	return nil
}

func cmdMask(_ context.Context, env *cliEnv, args []string) error {
	var right bool
	var show int
	var char string
	fs := newFlagSet(env, "mask", "[text|-]")
	fs.BoolVar(&right, "right", false, "keep the first --show characters instead of the last")
	fs.IntVar(&show, "show", 4, "number of characters left visible")
	fs.StringVar(&char, "char", "*", "mask character")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	mask := []rune(char)
	if len(mask) != 1 {
		return apperrors.InvalidInput("char", "must be a single character")
	}
	if show < 0 {
		return apperrors.InvalidInput("show", "must not be negative")
	}

	text, err := inputText(env, fs.Args())
	if err != nil {
		return err
	}
	if right {
		fmt.Fprintln(env.stdout, util.MaskRight(text, mask[0], show))
	} else {
		fmt.Fprintln(env.stdout, util.MaskLeft(text, mask[0], show))
	}
	return nil
}

func cmdServe(ctx context.Context, env *cliEnv, args []string) error {
	var cf configFlags
	fs := newFlagSet(env, "serve", "")
	cf.register(fs)
	if err := env.parse(fs, args); err != nil {
		return err
	}

	cfg, err := cf.load()
	if err != nil {
		return err
	}
	cfg.Server.Enabled = true
	if cfg.Version == "" {
		cfg.Version = version.Version
	}

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func cmdVersion(_ context.Context, env *cliEnv, args []string) error {
	fs := newFlagSet(env, "version", "")
	if err := env.parse(fs, args); err != nil {
		return err
	}
	fmt.Fprintln(env.stdout, "cryptokit "+version.Get().String())
	return nil
}

// report prints err and maps it to an exit code.
func report(w io.Writer, err error) int {
	switch {
	case errors.Is(err, errHelp):
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, errVerifyFailed):
		return exitFail
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		fmt.Fprintf(w, "error: %s: %s\n", appErr.Code, appErr.Message)
		return exitFail
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return exitFail
}
