package skill

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/git"
	"github.com/thoreinstein/nexus/internal/logging"
	"github.com/thoreinstein/nexus/internal/paths"
	"github.com/thoreinstein/nexus/pkg/fileutil"
)

const (
	defaultRawBase = "https://raw.githubusercontent.com"
	defaultGitBase = "https://github.com"
	fetchTimeout   = 15 * time.Second
)

// ErrFetchFailed is returned when no strategy produced the document.
var ErrFetchFailed = errors.New("remote skill not found")

// searchPrefixes are the repository directories skills are conventionally kept in.
var searchPrefixes = []string{"", "skills/", ".claude/skills/", ".agents/skills/"}

// Fetcher retrieves a remote skill's primary document.
type Fetcher struct {
	client  *http.Client
	rawBase string
	gitBase string
	workDir string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithRawBaseURL points raw file requests somewhere other than GitHub.
func WithRawBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.rawBase = strings.TrimSuffix(u, "/") }
}

// WithGitBaseURL points clone fallbacks somewhere other than GitHub.
func WithGitBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.gitBase = strings.TrimSuffix(u, "/") }
}

// NewFetcher returns a Fetcher that places fallback clones under workDir.
func NewFetcher(workDir string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{Timeout: fetchTimeout},
		rawBase: defaultRawBase,
		gitBase: defaultGitBase,
		workDir: workDir,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// repoPath reduces a source to owner/repo, or "" when it is a full git URL
// that only the clone fallback can serve.
func repoPath(source string) (string, error) {
	s := strings.TrimSuffix(strings.TrimSpace(source), "/")
	s = strings.TrimPrefix(s, "https://github.com/")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(s, ".git")
	if git.IsURL(s) {
		return "", nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 || !fileutil.SafeName(parts[0]) || !fileutil.SafeName(parts[1]) {
		return "", errors.Wrapf(errors.ErrInvalidName, "source %q must be owner/repo or a git URL", source)
	}
	return s, nil
}

// candidates lists the raw URLs the document may live at.
func (f *Fetcher) candidates(repo string, o Origin) []string {
	if repo == "" {
		return nil
	}
	refs := []string{"main", "master"}
	if o.Ref != "" {
		refs = []string{o.Ref}
	}
	var urls []string
	for _, ref := range refs {
		for _, prefix := range searchPrefixes {
			p := path.Join(prefix+o.ID, paths.SkillFilename)
			urls = append(urls, f.rawBase+"/"+repo+"/"+ref+"/"+p)
		}
	}
	return urls
}

// FetchPrimary races every candidate URL and returns the first document
// served; the losing requests are cancelled. When none answers it falls back
// to a sparse clone of the repository.
func (f *Fetcher) FetchPrimary(ctx context.Context, o Origin) ([]byte, error) {
	if o.ID == "" || strings.Contains(o.ID, "..") {
		return nil, errors.Wrapf(errors.ErrInvalidName, "skill id %q", o.ID)
	}
	repo, err := repoPath(o.Source)
	if err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With("source", o.Source, "skill", o.ID)

	if urls := f.candidates(repo, o); len(urls) > 0 {
		data, err := f.race(ctx, urls)
		if err == nil {
			return data, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("raw fetch failed, trying clone", "error", err)
	}

	cloneURL := o.Source
	if repo != "" {
		cloneURL = f.gitBase + "/" + repo + ".git"
	}
	data, err := f.fromClone(ctx, cloneURL, o)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "fetching %s from %s", o.ID, o.Source), ErrFetchFailed)
	}
	return data, nil
}

func (f *Fetcher) race(ctx context.Context, urls []string) ([]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once   sync.Once
		winner []byte
		mu     sync.Mutex
		errs   []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, u := range urls {
		g.Go(func() error {
			data, err := f.get(gctx, u)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				// a miss must not cancel the other candidates
				return nil
			}
			once.Do(func() {
				winner = data
				cancel()
			})
			return nil
		})
	}
	_ = g.Wait()

	if winner != nil {
		return winner, nil
	}
	return nil, errors.Mark(errors.Join(errs...), ErrFetchFailed)
}

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("GET %s: %s", u, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, fileutil.MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > fileutil.MaxFileSize {
		return nil, errors.Wrapf(fileutil.ErrFileTooLarge, "GET %s", u)
	}
	return data, nil
}

// fromClone clones without blobs, finds the skill directory in the tree and
// checks out only that directory.
func (f *Fetcher) fromClone(ctx context.Context, cloneURL string, o Origin) ([]byte, error) {
	if err := os.MkdirAll(f.workDir, 0o755); err != nil {
		return nil, errors.NewIOError(f.workDir, err)
	}
	tmp, err := os.MkdirTemp(f.workDir, "fetch-*")
	if err != nil {
		return nil, errors.NewIOError(f.workDir, err)
	}
	defer os.RemoveAll(tmp)

	repoDir := filepath.Join(tmp, "repo")
	if err := git.SparseClone(ctx, cloneURL, repoDir, o.Ref); err != nil {
		return nil, err
	}
	files, err := git.ListFiles(ctx, repoDir)
	if err != nil {
		return nil, err
	}

	match := findSkillPath(files, o.ID)
	if match == "" {
		return nil, errors.Wrapf(ErrFetchFailed, "no %s for %q in repository", paths.SkillFilename, o.ID)
	}
	if err := git.SparseCheckout(ctx, repoDir, path.Dir(match)); err != nil {
		return nil, err
	}
	return fileutil.ReadFileWithLimit(filepath.Join(repoDir, filepath.FromSlash(match)))
}

// findSkillPath returns the shortest tree path that ends in id/SKILL.md.
func findSkillPath(files []string, id string) string {
	want := strings.Trim(id, "/") + "/" + paths.SkillFilename
	var matches []string
	for _, f := range files {
		if f == want || strings.HasSuffix(f, "/"+want) {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		return ""
	}
	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches[0]
}
