package gateway

import (
	"net"
	"path/filepath"

	"github.com/jinzhu/configor"
	"github.com/pkg/errors"

	"github.com/kellegous/php-from-rs/log"
)

// Options is the whole configuration surface of the gateway. It is
// built once at startup, validated, and shared read-only by every
// request handler afterwards; nothing mutates it while serving.
type Options struct {
	// Address the gateway listens on for inbound HTTP.
	Address string `yaml:"address" default:"0.0.0.0:3222"`

	// AuxAddress serves metrics and health; empty disables it.
	AuxAddress string `yaml:"aux_address" default:"127.0.0.1:7070"`

	Fpm FpmOptions  `yaml:"fpm"`
	Log log.Options `yaml:"log"`
}

type FpmOptions struct {
	// Address of the FastCGI backend.
	Address string `yaml:"address" default:"127.0.0.1:9000"`

	// Bin is the backend executable.
	Bin string `yaml:"bin" default:"php-fpm"`

	// ScriptPath is the entry script every request dispatches to.
	ScriptPath string `yaml:"script_path" default:"pub/index.php"`

	// ConfigPath is the backend's own configuration file.
	ConfigPath string `yaml:"config_path" default:"php-fpm.conf"`
}

// LoadOptions reads a yaml config file. An empty path yields the
// built-in defaults.
func LoadOptions(path string) (*Options, error) {
	opt := &Options{}

	var files []string
	if path != "" {
		files = append(files, path)
	}
	if err := configor.Load(opt, files...); err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return opt, nil
}

// Validate normalizes addresses and canonicalizes the backend paths.
// Paths must resolve before the worker is spawned so relative inputs
// work regardless of working directory. Any failure here is fatal.
func (o *Options) Validate() error {
	a, err := canonicalizateHostPort(o.Address)
	if err != nil {
		return errors.Wrapf(err, "invalid listen address %q", o.Address)
	}
	o.Address = a

	if o.AuxAddress != "" {
		a, err = canonicalizateHostPort(o.AuxAddress)
		if err != nil {
			return errors.Wrapf(err, "invalid aux address %q", o.AuxAddress)
		}
		o.AuxAddress = a
	}

	a, err = canonicalizateHostPort(o.Fpm.Address)
	if err != nil {
		return errors.Wrapf(err, "invalid fpm address %q", o.Fpm.Address)
	}
	o.Fpm.Address = a

	if o.Fpm.ScriptPath, err = canonicalizePath(o.Fpm.ScriptPath); err != nil {
		return errors.Wrap(err, "invalid fpm script path")
	}
	if o.Fpm.ConfigPath, err = canonicalizePath(o.Fpm.ConfigPath); err != nil {
		return errors.Wrap(err, "invalid fpm config path")
	}

	return nil
}

func canonicalizateHostPort(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", errors.Wrap(err, "SplitHostPort failed")
	}
	return net.JoinHostPort(host, port), nil
}

// canonicalizePath resolves p to an absolute path with symlinks
// evaluated; p must exist.
func canonicalizePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", p)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, "failed to canonicalize %s", abs)
	}
	return resolved, nil
}
