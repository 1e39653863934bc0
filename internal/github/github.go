// Package github is a small REST client for the repository operations the
// deploy flow needs: committing files, reading repository metadata, and
// managing GitHub Pages.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pagewright/pagewright/internal/core/runtime"
)

const defaultBaseURL = "https://api.github.com"

// FileOperation describes one file in a commit.
type FileOperation struct {
	// Op is "create", "update", or "delete".
	Op      string
	Path    string
	Content string
}

// Author identifies the commit author and committer.
type Author struct {
	Name  string
	Email string
}

// PagesInfo reports the GitHub Pages state of a repository.
type PagesInfo struct {
	Enabled bool
	URL     string
	Status  string
	Branch  string
	Path    string
}

// RepoInfo is the repository metadata surfaced before a deploy.
type RepoInfo struct {
	Name          string
	FullName      string
	Description   string
	DefaultBranch string
	Private       bool
	HTMLURL       string
	Pages         PagesInfo
}

// CommitResult reports a successful commit.
type CommitResult struct {
	SHA      string
	PagesURL string
}

// FileInfo is one entry of a repository directory listing.
type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
	SHA  string `json:"sha"`
}

// ParseRepoURL extracts owner and repository name from a github.com URL.
// A trailing .git suffix is stripped; .github.io names are kept intact.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", "", fmt.Errorf("parse repository URL: %w", err)
	}
	if parsed.Hostname() != "github.com" {
		return "", "", fmt.Errorf("not a github.com repository: %s", repoURL)
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub repository URL: %s", repoURL)
	}
	repo = strings.TrimSuffix(parts[1], ".git")
	return parts[0], repo, nil
}

// Client talks to the GitHub REST API for a single repository.
type Client struct {
	token      string
	owner      string
	repo       string
	baseURL    string
	httpClient *http.Client
	logger     runtime.Logger
}

// Option adjusts a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithLogger attaches a logger.
func WithLogger(logger runtime.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient builds a client for the repository at repoURL.
func NewClient(token, repoURL string, opts ...Option) (*Client, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	client := &Client{
		token:      token,
		owner:      owner,
		repo:       repo,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     &runtime.NopLogger{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Owner returns the repository owner parsed from the URL.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name parsed from the URL.
func (c *Client) Repo() string { return c.repo }

type requestError struct {
	status int
	body   string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("github: status %d: %s", e.status, e.body)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("github: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("github: build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		return &requestError{status: resp.StatusCode, body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode response: %w", err)
	}
	return nil
}

func statusOf(err error) int {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.status
	}
	return 0
}

func (c *Client) repoPath(suffix string) string {
	return fmt.Sprintf("/repos/%s/%s%s", c.owner, c.repo, suffix)
}

// ValidateAccess checks that the token can read the repository.
func (c *Client) ValidateAccess(ctx context.Context) error {
	var repo struct {
		FullName string `json:"full_name"`
	}
	if err := c.do(ctx, http.MethodGet, c.repoPath(""), nil, &repo); err != nil {
		return fmt.Errorf("validate repository access: %w", err)
	}
	return nil
}

// RepositoryInfo fetches repository metadata including Pages state. When the
// Pages endpoint is unavailable, repositories named owner.github.io are
// assumed to serve Pages at their canonical URL.
func (c *Client) RepositoryInfo(ctx context.Context) (RepoInfo, error) {
	var repo struct {
		Name          string `json:"name"`
		FullName      string `json:"full_name"`
		Description   string `json:"description"`
		DefaultBranch string `json:"default_branch"`
		Private       bool   `json:"private"`
		HTMLURL       string `json:"html_url"`
	}
	if err := c.do(ctx, http.MethodGet, c.repoPath(""), nil, &repo); err != nil {
		return RepoInfo{}, fmt.Errorf("get repository info: %w", err)
	}

	info := RepoInfo{
		Name:          repo.Name,
		FullName:      repo.FullName,
		Description:   repo.Description,
		DefaultBranch: repo.DefaultBranch,
		Private:       repo.Private,
		HTMLURL:       repo.HTMLURL,
	}

	pages, err := c.PagesStatus(ctx)
	if err != nil {
		info.Pages = c.assumedPages()
	} else {
		info.Pages = pages
	}
	return info, nil
}

func (c *Client) assumedPages() PagesInfo {
	if strings.HasSuffix(c.repo, ".github.io") {
		return PagesInfo{Enabled: true, URL: fmt.Sprintf("https://%s/", c.repo), Status: "assumed"}
	}
	return PagesInfo{}
}

// PagesStatus reports whether GitHub Pages is enabled and where it serves.
// A disabled site is not an error.
func (c *Client) PagesStatus(ctx context.Context) (PagesInfo, error) {
	var pages struct {
		HTMLURL string `json:"html_url"`
		Status  string `json:"status"`
		Source  struct {
			Branch string `json:"branch"`
			Path   string `json:"path"`
		} `json:"source"`
	}
	err := c.do(ctx, http.MethodGet, c.repoPath("/pages"), nil, &pages)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return PagesInfo{}, nil
		}
		return PagesInfo{}, fmt.Errorf("get pages status: %w", err)
	}
	return PagesInfo{
		Enabled: true,
		URL:     pages.HTMLURL,
		Status:  pages.Status,
		Branch:  pages.Source.Branch,
		Path:    pages.Source.Path,
	}, nil
}

// EnablePages turns on GitHub Pages serving from the root of sourceBranch.
// An already enabled site is not an error.
func (c *Client) EnablePages(ctx context.Context, sourceBranch string) (PagesInfo, error) {
	if sourceBranch == "" {
		sourceBranch = "main"
	}
	payload := map[string]any{
		"source": map[string]string{"branch": sourceBranch, "path": "/"},
	}
	var pages struct {
		HTMLURL string `json:"html_url"`
		Status  string `json:"status"`
	}
	err := c.do(ctx, http.MethodPost, c.repoPath("/pages"), payload, &pages)
	if err != nil {
		if statusOf(err) == http.StatusConflict {
			return c.PagesStatus(ctx)
		}
		return PagesInfo{}, fmt.Errorf("enable pages: %w", err)
	}
	return PagesInfo{Enabled: true, URL: pages.HTMLURL, Status: pages.Status, Branch: sourceBranch, Path: "/"}, nil
}

// FileContent fetches a file from the default branch. A missing file returns
// ok=false rather than an error.
func (c *Client) FileContent(ctx context.Context, path string) (content string, ok bool, err error) {
	var file struct {
		Type     string `json:"type"`
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}
	err = c.do(ctx, http.MethodGet, c.repoPath("/contents/"+strings.TrimPrefix(path, "/")), nil, &file)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get file content: %w", err)
	}
	if file.Type != "file" {
		return "", false, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", false, fmt.Errorf("decode file content: %w", err)
	}
	return string(decoded), true, nil
}

// ListFiles lists the entries under path, or the repository root when path
// is empty.
func (c *Client) ListFiles(ctx context.Context, path string) ([]FileInfo, error) {
	var entries []FileInfo
	err := c.do(ctx, http.MethodGet, c.repoPath("/contents/"+strings.TrimPrefix(path, "/")), nil, &entries)
	if err != nil {
		return nil, fmt.Errorf("list repository files: %w", err)
	}
	return entries, nil
}

// CommitFiles commits the given files to the default branch. A single create
// or update goes through the contents API; everything else, multi-file
// batches and deletions included, builds one commit through the git data API
// so the deploy lands atomically.
func (c *Client) CommitFiles(ctx context.Context, files []FileOperation, message string, author Author) (CommitResult, error) {
	if len(files) == 0 {
		return CommitResult{}, errors.New("no files to commit")
	}

	var (
		result CommitResult
		err    error
	)
	if len(files) == 1 && files[0].Op != "delete" {
		result, err = c.commitSingle(ctx, files[0], message, author)
	} else {
		result, err = c.commitTree(ctx, files, message, author)
	}
	if err != nil {
		return CommitResult{}, err
	}

	if pages, pagesErr := c.PagesStatus(ctx); pagesErr == nil && pages.Enabled {
		result.PagesURL = pages.URL
	} else if assumed := c.assumedPages(); assumed.Enabled {
		result.PagesURL = assumed.URL
	}
	c.logger.Info("files committed",
		runtime.F("count", len(files)),
		runtime.F("sha", result.SHA))
	return result, nil
}

func (c *Client) commitSingle(ctx context.Context, file FileOperation, message string, author Author) (CommitResult, error) {
	contentsPath := c.repoPath("/contents/" + strings.TrimPrefix(file.Path, "/"))

	// An existing file must be updated with its current blob SHA.
	var existing struct {
		SHA string `json:"sha"`
	}
	getErr := c.do(ctx, http.MethodGet, contentsPath, nil, &existing)
	if getErr != nil && statusOf(getErr) != http.StatusNotFound {
		return CommitResult{}, fmt.Errorf("check existing file: %w", getErr)
	}

	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(file.Content)),
	}
	if existing.SHA != "" {
		payload["sha"] = existing.SHA
	}
	if author.Name != "" {
		signature := map[string]string{"name": author.Name, "email": author.Email}
		payload["author"] = signature
		payload["committer"] = signature
	}

	var response struct {
		Commit struct {
			SHA string `json:"sha"`
		} `json:"commit"`
	}
	if err := c.do(ctx, http.MethodPut, contentsPath, payload, &response); err != nil {
		return CommitResult{}, fmt.Errorf("commit %s: %w", file.Path, err)
	}
	return CommitResult{SHA: response.Commit.SHA}, nil
}

func (c *Client) commitTree(ctx context.Context, files []FileOperation, message string, author Author) (CommitResult, error) {
	var repo struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := c.do(ctx, http.MethodGet, c.repoPath(""), nil, &repo); err != nil {
		return CommitResult{}, fmt.Errorf("get default branch: %w", err)
	}

	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	refPath := c.repoPath("/git/ref/heads/" + repo.DefaultBranch)
	if err := c.do(ctx, http.MethodGet, refPath, nil, &ref); err != nil {
		return CommitResult{}, fmt.Errorf("get branch head: %w", err)
	}
	parentSHA := ref.Object.SHA

	// The tree is a delta against base_tree: omitted paths are inherited
	// unchanged, so a deletion must be an explicit entry with a null sha.
	entries := make([]map[string]any, 0, len(files))
	for _, file := range files {
		entry := map[string]any{
			"path": strings.TrimPrefix(file.Path, "/"),
			"mode": "100644",
			"type": "blob",
		}
		if file.Op == "delete" {
			entry["sha"] = nil
		} else {
			entry["content"] = file.Content
		}
		entries = append(entries, entry)
	}

	var tree struct {
		SHA string `json:"sha"`
	}
	treePayload := map[string]any{"base_tree": parentSHA, "tree": entries}
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/trees"), treePayload, &tree); err != nil {
		return CommitResult{}, fmt.Errorf("create tree: %w", err)
	}

	commitPayload := map[string]any{
		"message": message,
		"tree":    tree.SHA,
		"parents": []string{parentSHA},
	}
	if author.Name != "" {
		signature := map[string]string{"name": author.Name, "email": author.Email}
		commitPayload["author"] = signature
		commitPayload["committer"] = signature
	}
	var commit struct {
		SHA string `json:"sha"`
	}
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/commits"), commitPayload, &commit); err != nil {
		return CommitResult{}, fmt.Errorf("create commit: %w", err)
	}

	refUpdate := map[string]any{"sha": commit.SHA}
	updatePath := c.repoPath("/git/refs/heads/" + repo.DefaultBranch)
	if err := c.do(ctx, http.MethodPatch, updatePath, refUpdate, nil); err != nil {
		return CommitResult{}, fmt.Errorf("update branch ref: %w", err)
	}
	return CommitResult{SHA: commit.SHA}, nil
}
