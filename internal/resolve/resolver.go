// Package resolve classifies library names found by the scanner against the
// baseline manifest and the system dump, following every blob it finds to
// discover the blobs that one needs in turn.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"blobdeps/internal/model"
	"blobdeps/internal/scan"
)

// DefaultBaselinePrefix is prepended to directory+name when consulting the
// baseline manifest.
const DefaultBaselinePrefix = "/system"

// ErrTargetNotFound is returned when a user-named file is in no directory of the dump.
var ErrTargetNotFound = errors.New("target not found in system dump")

// Options configures a Resolver.
type Options struct {
	Root           string   // System dump root (the directory holding build.prop)
	Vendor         string   // Used in blob lines: vendor/<Vendor>/<Device>/proprietary/...
	Device         string   // See Vendor
	BaselinePrefix string   // Defaults to DefaultBaselinePrefix
	Directories    []string // Candidate directories, in priority order

	MaxBackward       int
	MaxNameLen        int
	RegistryWarnBytes int
}

// work is one pending name on the resolver's stack.
type work struct {
	name     string
	from     string // file whose bytes mentioned the name
	offset   int
	depth    int
	expanded bool // produced by a wildcard listing, never split again
}

// Resolver runs the discover -> classify -> scan loop. It is single-threaded
// and keeps all state for one run; create a new one per run.
type Resolver struct {
	opts      Options
	index     *Index
	registry  *Registry
	extractor *scan.Extractor
	out       io.Writer
	log       zerolog.Logger

	stack    []work
	result   model.Result
	baseline map[string]bool
}

// New creates a Resolver. Blob lines are written to out as they are found;
// warnings go to log.
func New(opts Options, index *Index, out io.Writer, log zerolog.Logger) *Resolver {
	if opts.BaselinePrefix == "" {
		opts.BaselinePrefix = DefaultBaselinePrefix
	}
	if len(opts.Directories) == 0 {
		opts.Directories = scan.Directories()
	}
	if index == nil {
		index = NewIndex(nil)
	}
	if out == nil {
		out = io.Discard
	}

	ext := scan.NewExtractor(opts.Directories)
	if opts.MaxBackward > 0 {
		ext.MaxBackward = opts.MaxBackward
	}
	if opts.MaxNameLen > 0 {
		ext.MaxNameLen = opts.MaxNameLen
	}

	return &Resolver{
		opts:      opts,
		index:     index,
		registry:  NewRegistry(opts.RegistryWarnBytes),
		extractor: ext,
		out:       out,
		log:       log,
		baseline:  make(map[string]bool),
	}
}

// Registry exposes the processed-name registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Result returns a copy of everything resolved so far.
func (r *Resolver) Result() model.Result {
	res := r.result
	res.Targets = append([]string(nil), r.result.Targets...)
	res.Outcomes = append([]model.Outcome(nil), r.result.Outcomes...)
	res.Diagnostics = append([]string(nil), r.result.Diagnostics...)
	return res
}

// ResolveTarget looks up a user-named file in the dump, reports it, and
// resolves every library it references, transitively. Names containing a
// '/' are reduced to their last element.
//
// A target that was already reported (directly or as a dependency) is not
// reported again.
func (r *Resolver) ResolveTarget(ctx context.Context, target string) error {
	name := strings.TrimSpace(target)
	if strings.Contains(name, "/") {
		name = path.Base(name)
	}
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("%w: empty name", ErrTargetNotFound)
	}
	r.result.Targets = append(r.result.Targets, name)

	if r.registry.Seen(name) {
		r.log.Info().Str("name", name).Msg("target already processed")
		return nil
	}

	dir, full, ok := r.findInTree(name)
	if !ok {
		r.warn(fmt.Sprintf("target %s not found in %s", name, r.opts.Root))
		return fmt.Errorf("%w: %s", ErrTargetNotFound, name)
	}
	r.record(name)
	r.reportBlob(work{name: name}, dir, full)
	return r.drain(ctx)
}

// drain pops names until the stack is empty. Depth-first: the names found in
// a blob are all handled before the names after it in the referencing file.
func (r *Resolver) drain(ctx context.Context) error {
	for len(r.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		w := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
		r.resolveName(w)
	}
	return nil
}

func (r *Resolver) resolveName(w work) {
	if r.registry.Seen(w.name) {
		return
	}

	if hit, ok := r.checkBaseline(w.name); ok {
		if !r.baseline[w.name] {
			r.baseline[w.name] = true
			r.result.Outcomes = append(r.result.Outcomes, model.Outcome{
				Name:         w.name,
				Kind:         model.OutcomeBaseline,
				BaselinePath: hit,
				ReferencedBy: w.from,
				Offset:       w.offset,
				Depth:        w.depth,
			})
		}
		return
	}

	r.record(w.name)

	if dir, full, ok := r.findInTree(w.name); ok {
		r.reportBlob(w, dir, full)
		return
	}

	if !w.expanded && strings.IndexByte(w.name, scan.Wildcard) >= 0 {
		r.expandWildcard(w)
		return
	}

	r.warn(fmt.Sprintf("blob file %s missing or broken", w.name))
	r.result.Outcomes = append(r.result.Outcomes, model.Outcome{
		Name:         w.name,
		Kind:         model.OutcomeUnresolved,
		ReferencedBy: w.from,
		Offset:       w.offset,
		Depth:        w.depth,
	})
}

// checkBaseline returns the manifest entry satisfying name, if any.
func (r *Resolver) checkBaseline(name string) (string, bool) {
	for _, dir := range r.opts.Directories {
		p := r.opts.BaselinePrefix + dir + name
		if r.index.Contains(p) {
			return p, true
		}
	}
	return "", false
}

// findInTree returns the first candidate directory holding name.
func (r *Resolver) findInTree(name string) (dir, full string, ok bool) {
	for _, d := range r.opts.Directories {
		p := filepath.Join(r.opts.Root, filepath.FromSlash(d), name)
		if _, err := os.Stat(p); err == nil {
			return d, p, true
		}
	}
	return "", "", false
}

// reportBlob prints the blob line for a tree hit and queues the names the
// blob itself references.
func (r *Resolver) reportBlob(w work, dir, full string) {
	found, err := r.scanFile(full, w.depth+1)

	line := BlobLine(r.opts.Vendor, r.opts.Device, dir, w.name)
	fmt.Fprintln(r.out, line)
	r.result.Outcomes = append(r.result.Outcomes, model.Outcome{
		Name:         w.name,
		Kind:         model.OutcomeTree,
		Directory:    dir,
		Source:       fmt.Sprintf("vendor/%s/%s/proprietary%s%s", r.opts.Vendor, r.opts.Device, dir, w.name),
		Dest:         "system" + dir + w.name,
		BlobLine:     line,
		Recursed:     err == nil,
		ReferencedBy: w.from,
		Offset:       w.offset,
		Depth:        w.depth,
	})

	r.push(found)
}

// scanFile extracts every candidate name from file. The file is
// unmapped before returning.
func (r *Resolver) scanFile(file string, depth int) ([]work, error) {
	buf, err := scan.Open(file)
	if err != nil {
		r.warn(fmt.Sprintf("cannot scan %s: %v", file, err))
		return nil, err
	}
	defer buf.Close()

	var found []work
	for c, err := range r.extractor.Candidates(buf.Bytes()) {
		if err != nil {
			if errors.Is(err, scan.ErrNameTooLong) {
				r.warn(fmt.Sprintf("implausibly long name ending at offset %d in %s", c.Offset, file))
			} else {
				r.log.Debug().Str("file", file).Int("offset", c.Offset).Err(err).Msg("skipping .so occurrence")
			}
			continue
		}
		r.log.Debug().Str("file", file).Int("offset", c.Offset).Str("name", c.Name).Msg("candidate")
		found = append(found, work{name: c.Name, from: file, offset: c.Offset, depth: depth})
	}
	return found, nil
}

// push queues items so that items[0] is handled first.
func (r *Resolver) push(items []work) {
	for i := len(items) - 1; i >= 0; i-- {
		r.stack = append(r.stack, items[i])
	}
}

func (r *Resolver) record(name string) {
	if r.registry.Record(name) {
		r.warn(fmt.Sprintf("processed-name registry is unusually large (%d names, %d bytes)",
			r.registry.Len(), r.registry.Size()))
	}
}

func (r *Resolver) warn(msg string) {
	r.log.Warn().Msg(msg)
	r.result.Diagnostics = append(r.result.Diagnostics, msg)
}

// BlobLine formats a proprietary file for a PRODUCT_COPY_FILES list.
func BlobLine(vendor, device, dir, name string) string {
	return fmt.Sprintf("vendor/%s/%s/proprietary%s%s:system%s%s \\", vendor, device, dir, name, dir, name)
}
