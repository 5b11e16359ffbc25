package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	// NewOrganizationLabel tags issues that ask for master list review.
	NewOrganizationLabel = "new-organization"

	issueTitle     = "Nye organisasjoner lagt til i masterlisten"
	defaultTimeout = 15 * time.Second
)

var ErrInvalidRepository = errors.New("repository must be in owner/name form")

// IssueReporter files a GitHub issue whenever organizations are added to the
// master list, so the default list shipped with the app can be updated.
type IssueReporter struct {
	gh    *gh.Client
	owner string
	repo  string
	log   zerolog.Logger
}

// NewIssueReporter returns a reporter for repository ("owner/name"). With an
// empty token the reporter is disabled and every report is a no-op.
func NewIssueReporter(token, repository string, log zerolog.Logger) (*IssueReporter, error) {
	r := &IssueReporter{log: log.With().Str("component", "issue_reporter").Logger()}
	if token == "" {
		return r, nil
	}

	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRepository, repository)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = defaultTimeout

	r.gh = gh.NewClient(httpClient)
	r.owner = owner
	r.repo = repo
	return r, nil
}

// WithBaseURL points an enabled reporter at another API endpoint
// (GitHub Enterprise, tests).
func (r *IssueReporter) WithBaseURL(rawURL string) error {
	if !r.Enabled() {
		return nil
	}
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}
	r.gh.BaseURL = u
	return nil
}

// Enabled reports whether issues are actually filed.
func (r *IssueReporter) Enabled() bool {
	return r != nil && r.gh != nil && r.owner != ""
}

// ReportNewOrganizations opens one issue listing names.
func (r *IssueReporter) ReportNewOrganizations(ctx context.Context, names []string) error {
	if !r.Enabled() || len(names) == 0 {
		return nil
	}

	var body strings.Builder
	body.WriteString("Følgende organisasjoner ble lagt til i masterlisten:\n\n")
	for _, name := range names {
		fmt.Fprintf(&body, "- %s\n", name)
	}

	labels := []string{NewOrganizationLabel}
	issue, _, err := r.gh.Issues.Create(ctx, r.owner, r.repo, &gh.IssueRequest{
		Title:  gh.Ptr(issueTitle),
		Body:   gh.Ptr(body.String()),
		Labels: &labels,
	})
	if err != nil {
		return fmt.Errorf("create issue in %s/%s: %w", r.owner, r.repo, err)
	}

	r.log.Info().
		Int("issue", issue.GetNumber()).
		Strs("organizations", names).
		Msg("reported new organizations")
	return nil
}
