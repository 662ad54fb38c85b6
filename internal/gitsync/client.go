package gitsync

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/logfields"
)

// Client syncs the docs source repository into a local workspace directory.
type Client struct {
	workspaceDir string
}

// NewClient creates a git client rooted at the given workspace directory.
func NewClient(workspaceDir string) *Client { return &Client{workspaceDir: workspaceDir} }

// Sync clones the docs source repository if missing, or pulls the configured
// branch when a checkout already exists. Returns the path of the docs
// directory inside the checkout (source.path).
func (c *Client) Sync(src config.SourceConfig) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, "source")

	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err != nil {
		if err := c.clone(src, repoPath); err != nil {
			return "", err
		}
	} else if err := c.pull(src, repoPath); err != nil {
		return "", err
	}

	docsPath := filepath.Join(repoPath, filepath.FromSlash(src.Path))
	if st, err := os.Stat(docsPath); err != nil || !st.IsDir() {
		return "", fmt.Errorf("docs path %q not found in repository %s", src.Path, src.URL)
	}
	return docsPath, nil
}

func (c *Client) clone(src config.SourceConfig, repoPath string) error {
	slog.Debug("Cloning docs repository", logfields.URL(src.URL), slog.String("branch", src.Branch))
	if err := os.RemoveAll(repoPath); err != nil {
		return fmt.Errorf("remove existing checkout: %w", err)
	}

	opts := &git.CloneOptions{URL: src.URL, Depth: 1}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + src.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(src.Auth)
	if err != nil {
		return err
	}
	opts.Auth = auth

	repo, err := git.PlainClone(repoPath, false, opts)
	if err != nil {
		return classifyError("clone", src.URL, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Docs repository cloned", logfields.URL(src.URL), slog.String("commit", ref.Hash().String()[:8]))
	}
	return nil
}

func (c *Client) pull(src config.SourceConfig, repoPath string) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("open checkout %s: %w", repoPath, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}

	auth, err := authMethod(src.Auth)
	if err != nil {
		return err
	}
	pullOpts := &git.PullOptions{Auth: auth}
	if src.Branch != "" {
		pullOpts.ReferenceName = plumbing.ReferenceName("refs/heads/" + src.Branch)
		pullOpts.SingleBranch = true
	}

	err = wt.Pull(pullOpts)
	if err == git.NoErrAlreadyUpToDate {
		slog.Debug("Docs repository already up to date", logfields.URL(src.URL))
		return nil
	}
	if err != nil {
		return classifyError("pull", src.URL, err)
	}
	slog.Info("Docs repository updated", logfields.URL(src.URL))
	return nil
}

// authMethod maps the config auth block to a go-git transport auth method.
func authMethod(auth *config.AuthConfig) (transport.AuthMethod, error) {
	if auth.IsZero() {
		return nil, nil
	}
	switch auth.Type {
	case config.AuthTypeToken:
		return &http.BasicAuth{Username: "token", Password: auth.Token}, nil
	case config.AuthTypeBasic:
		return &http.BasicAuth{Username: auth.Username, Password: auth.Password}, nil
	case config.AuthTypeSSH:
		keys, err := ssh.NewPublicKeysFromFile("git", auth.KeyPath, auth.Password)
		if err != nil {
			return nil, fmt.Errorf("load ssh key %s: %w", auth.KeyPath, err)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("unsupported auth type %q", auth.Type)
	}
}

// classifyError wraps underlying go-git errors into typed failures so callers
// can branch without string parsing.
func classifyError(op, url string, err error) error {
	l := strings.ToLower(err.Error())
	if strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password") {
		return &AuthError{Op: op, URL: url, Err: err}
	}
	if strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist") {
		return &NotFoundError{Op: op, URL: url, Err: err}
	}
	if strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout") {
		return &NetworkTimeoutError{Op: op, URL: url, Err: err}
	}
	return fmt.Errorf("gitsync %s %s: %w", op, url, err)
}
