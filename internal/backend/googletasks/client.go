// Package googletasks implements tasklist.Adapter on top of a Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todos/internal/config"
	"todos/internal/tasklist"
)

const (
	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// ErrNotLoaded is returned by Save after Load failed. Saving then would delete
// every remote task the empty local list does not know about.
var ErrNotLoaded = errors.New("remote task list was not loaded")

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// Adapter saves the task list into a dedicated Google Tasks list.
type Adapter struct {
	svc    *tasks.Service
	title  string
	listID string
	logger *log.Logger

	// loadErr is the error of the last Load, nil once a Load succeeded.
	loadErr error
}

// OAuthConfig reads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// New creates an Adapter authenticated with the stored token.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, title string, opts ...Option) (*Adapter, error) {
	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, title, nil, opts...)
}

// NewWithHTTPClient creates an Adapter with a custom HTTP client and extra
// client options (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, title string, clientOpts []option.ClientOption, opts ...Option) (*Adapter, error) {
	clientOpts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, clientOpts...)
	svc, err := tasks.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	a := &Adapter{
		svc:    svc,
		title:  title,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Load implements tasklist.Adapter.
// A missing remote list is an empty task list.
func (a *Adapter) Load(ctx context.Context) ([]tasklist.Task, error) {
	remote, err := a.loadRemote(ctx)
	a.loadErr = err
	if err != nil {
		return nil, err
	}

	result := make([]tasklist.Task, 0, len(remote))
	seen := make(map[int64]bool, len(remote))
	for _, rt := range remote {
		task, ok := fromRemote(rt)
		if !ok {
			a.logger.Debug("adopting task without metadata", "remote_id", rt.Id)
		}
		for seen[task.ID] {
			task.ID++
		}
		seen[task.ID] = true
		result = append(result, task)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}

func (a *Adapter) loadRemote(ctx context.Context) ([]*tasks.Task, error) {
	listID, err := a.findList(ctx)
	if err != nil || listID == "" {
		return nil, err
	}
	return a.listTasks(ctx, listID)
}

// Save implements tasklist.Adapter.
// It fails with ErrNotLoaded until a Load succeeds again after a failed one.
// The remote list is brought in line with local using the fewest calls it
// can: stale tasks are deleted, surviving ones moved and patched, new ones
// inserted after their predecessor.
func (a *Adapter) Save(ctx context.Context, local []tasklist.Task) error {
	if a.loadErr != nil {
		return fmt.Errorf("%w: %v", ErrNotLoaded, a.loadErr)
	}

	listID, err := a.ensureList(ctx)
	if err != nil {
		return err
	}

	remote, err := a.listTasks(ctx, listID)
	if err != nil {
		return err
	}

	want := make(map[int64]bool, len(local))
	for _, t := range local {
		want[t.ID] = true
	}

	// Index remote tasks by local id; drop the rest.
	existing := make(map[int64]*tasks.Task, len(remote))
	var remoteOrder []int64
	for _, rt := range remote {
		id, _, ok := parseNotes(rt.Notes)
		if !ok || !want[id] || existing[id] != nil {
			if err := a.deleteTask(ctx, listID, rt.Id); err != nil {
				return err
			}
			continue
		}
		existing[id] = rt
		remoteOrder = append(remoteOrder, id)
	}

	if err := a.reorder(ctx, listID, local, existing, remoteOrder); err != nil {
		return err
	}

	prev := ""
	for _, t := range local {
		rt, ok := existing[t.ID]
		if !ok {
			inserted, err := a.insertTask(ctx, listID, prev, toRemote(t))
			if err != nil {
				return err
			}
			prev = inserted.Id
			continue
		}
		if patch := diff(rt, t); patch != nil {
			if err := a.patchTask(ctx, listID, rt.Id, patch); err != nil {
				return err
			}
		}
		prev = rt.Id
	}
	return nil
}

// reorder moves surviving remote tasks so they appear in local order.
func (a *Adapter) reorder(ctx context.Context, listID string, local []tasklist.Task, existing map[int64]*tasks.Task, remoteOrder []int64) error {
	var localOrder []int64
	for _, t := range local {
		if existing[t.ID] != nil {
			localOrder = append(localOrder, t.ID)
		}
	}

	inOrder := len(localOrder) == len(remoteOrder)
	for i := 0; inOrder && i < len(localOrder); i++ {
		inOrder = localOrder[i] == remoteOrder[i]
	}
	if inOrder {
		return nil
	}

	prev := ""
	for _, id := range localOrder {
		gid := existing[id].Id
		if err := a.moveTask(ctx, listID, gid, prev); err != nil {
			return err
		}
		prev = gid
	}
	return nil
}

func (a *Adapter) findList(ctx context.Context) (string, error) {
	if a.listID != "" {
		return a.listID, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var found string
	err := a.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if found == "" && list.Title == a.title {
				found = list.Id
			}
		}
		return nil
	})
	if err != nil {
		return "", wrapError(err)
	}
	a.listID = found
	return found, nil
}

func (a *Adapter) ensureList(ctx context.Context) (string, error) {
	listID, err := a.findList(ctx)
	if err != nil || listID != "" {
		return listID, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := a.svc.Tasklists.Insert(&tasks.TaskList{Title: a.title}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	a.logger.Info("created remote task list", "title", a.title)
	a.listID = list.Id
	return list.Id, nil
}

// listTasks returns every task in the remote list, top first.
func (a *Adapter) listTasks(ctx context.Context, listID string) ([]*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []*tasks.Task
	err := a.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			result = append(result, resp.Items...)
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	// Positions are zero-padded strings; lexical order is list order.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

func (a *Adapter) insertTask(ctx context.Context, listID, previous string, t *tasks.Task) (*tasks.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := a.svc.Tasks.Insert(listID, t).Context(ctx)
	if previous != "" {
		call = call.Previous(previous)
	}
	inserted, err := call.Do()
	if err != nil {
		return nil, wrapError(err)
	}
	return inserted, nil
}

func (a *Adapter) patchTask(ctx context.Context, listID, taskID string, patch *tasks.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if _, err := a.svc.Tasks.Patch(listID, taskID, patch).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func (a *Adapter) moveTask(ctx context.Context, listID, taskID, previous string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := a.svc.Tasks.Move(listID, taskID).Context(ctx)
	if previous != "" {
		call = call.Previous(previous)
	}
	if _, err := call.Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func (a *Adapter) deleteTask(ctx context.Context, listID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := a.svc.Tasks.Delete(listID, taskID).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: todos login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
