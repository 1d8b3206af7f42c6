package asnc

import (
	"bytes"
	"context"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// DefaultExtensions are the file extensions recognized as schema files.
var DefaultExtensions = []string{".asn", ".asn1"}

// Source finds schema files by module name.
type Source interface {
	// Find locates the file for a module. It returns the content and its
	// location, or an error wrapping fs.ErrNotExist.
	Find(ctx context.Context, name string) ([]byte, string, error)

	// List returns every schema file known to the source.
	List(ctx context.Context) ([]Input, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions  []string
	noHeuristic bool
}

func defaultSourceConfig(opts []SourceOption) sourceConfig {
	cfg := sourceConfig{extensions: DefaultExtensions}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithExtensions sets the file extensions to recognize for this source.
func WithExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = exts
	}
}

// WithNoHeuristic disables content validation for this source.
func WithNoHeuristic() SourceOption {
	return func(c *sourceConfig) {
		c.noHeuristic = true
	}
}

// --- Dir Source (afs backed) ---

type dirSource struct {
	fs      afs.Service
	baseURL string
	config  sourceConfig
}

// Dir creates a Source over one directory, given as a local path or any
// URL afs understands (file://, mem://, s3://, gs://). The module named X
// is looked up as X plus each extension. Nothing is read until Find or
// List is called.
func Dir(baseURL string, opts ...SourceOption) Source {
	return &dirSource{fs: afs.New(), baseURL: baseURL, config: defaultSourceConfig(opts)}
}

func (s *dirSource) Find(ctx context.Context, name string) ([]byte, string, error) {
	for _, ext := range s.config.extensions {
		URL := url.Join(s.baseURL, name+ext)
		ok, err := s.fs.Exists(ctx, URL)
		if err != nil {
			return nil, URL, errors.Wrapf(err, "checking %s", URL)
		}
		if !ok {
			continue
		}
		data, err := s.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, URL, errors.Wrapf(err, "reading %s", URL)
		}
		return data, URL, nil
	}
	return nil, "", errors.Wrapf(fs.ErrNotExist, "module %s in %s", name, s.baseURL)
}

func (s *dirSource) List(ctx context.Context) ([]Input, error) {
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", s.baseURL)
	}
	extSet := makeExtensionSet(s.config.extensions)
	var inputs []Input
	for _, obj := range objects {
		if obj.IsDir() || !hasValidExtension(obj.Name(), extSet) {
			continue
		}
		data, err := s.fs.DownloadWithURL(ctx, obj.URL())
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", obj.URL())
		}
		if !s.config.noHeuristic && !looksLikeSchema(data) {
			continue
		}
		inputs = append(inputs, Input{Location: obj.URL(), Content: data})
	}
	slices.SortFunc(inputs, func(a, b Input) int {
		return strings.Compare(a.Location, b.Location)
	})
	return inputs, nil
}

// --- Memory Source ---

type memorySource struct {
	inputs []Input
	config sourceConfig
}

// Inputs creates a Source over in-memory schema texts. A module is found
// by the base name of its Location without extension.
func Inputs(inputs []Input, opts ...SourceOption) Source {
	return &memorySource{inputs: inputs, config: defaultSourceConfig(opts)}
}

func (s *memorySource) Find(_ context.Context, name string) ([]byte, string, error) {
	for _, in := range s.inputs {
		if moduleNameFromPath(in.Location) == name {
			return in.Content, in.Location, nil
		}
	}
	return nil, "", errors.Wrapf(fs.ErrNotExist, "module %s", name)
}

func (s *memorySource) List(context.Context) ([]Input, error) {
	var out []Input
	for _, in := range s.inputs {
		if s.config.noHeuristic || looksLikeSchema(in.Content) {
			out = append(out, in)
		}
	}
	return out, nil
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source
}

// Multi combines multiple sources into one.
// Find tries each source in order, returning the first match.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Find(ctx context.Context, name string) ([]byte, string, error) {
	for _, src := range s.sources {
		data, location, err := src.Find(ctx, name)
		if err == nil {
			return data, location, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, location, err
		}
	}
	return nil, "", errors.Wrapf(fs.ErrNotExist, "module %s", name)
}

func (s *multiSource) List(ctx context.Context) ([]Input, error) {
	var inputs []Input
	for _, src := range s.sources {
		in, err := src.List(ctx)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in...)
	}
	return inputs, nil
}

// --- Helpers ---

var (
	sigDefinitions = []byte("DEFINITIONS")
	sigAssign      = []byte("::=")
)

// looksLikeSchema rejects binary files and files without a module header.
func looksLikeSchema(content []byte) bool {
	if len(content) == 0 || bytes.IndexByte(content, 0) >= 0 {
		return false
	}
	return bytes.Contains(content, sigDefinitions) && bytes.Contains(content, sigAssign)
}

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(name string, extSet map[string]struct{}) bool {
	_, ok := extSet[strings.ToLower(path.Ext(name))]
	return ok
}

func moduleNameFromPath(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
