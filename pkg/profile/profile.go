// Package profile defines the REST-shaped records produced by scraping GitHub pages.
package profile

import (
	"errors"
	"fmt"
)

// Common errors returned by the scraping packages.
var (
	ErrNotFound         = errors.New("not found")
	ErrNoData           = errors.New("no data")
	ErrUpstream         = errors.New("upstream fetch failed")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParamError describes a rejected query parameter.
type ParamError struct {
	Param   string
	Message string
}

func (e *ParamError) Error() string { return fmt.Sprintf("%s: %s", e.Param, e.Message) }

func (*ParamError) Unwrap() error { return ErrInvalidParameter }

// Kind is the account kind of a GitHub login.
type Kind int

// Account kinds.
const (
	KindPerson Kind = iota
	KindOrganization
)

// APIType returns the value the REST API uses in the "type" field.
func (k Kind) APIType() string {
	if k == KindOrganization {
		return "Organization"
	}
	return "User"
}

func (k Kind) String() string {
	if k == KindOrganization {
		return "organization"
	}
	return "person"
}

// User mirrors the REST "get a user" response. Every key is always emitted;
// fields that could not be scraped are null.
//
//nolint:govet // fieldalignment: field order follows the REST payload
type User struct {
	Login           *string `json:"login"`
	ID              *int64  `json:"id"`
	AvatarURL       *string `json:"avatar_url"`
	URL             *string `json:"url"`
	HTMLURL         *string `json:"html_url"`
	Type            string  `json:"type"`
	Name            *string `json:"name"`
	Company         *string `json:"company"`
	Blog            *string `json:"blog"`
	Location        *string `json:"location"`
	Bio             *string `json:"bio"`
	TwitterUsername *string `json:"twitter_username"`
	PublicRepos     *int    `json:"public_repos"`
	Followers       *int    `json:"followers"`
	Following       *int    `json:"following"`
}

// Owner is the abbreviated owner object embedded in a Repository.
type Owner struct {
	Login *string `json:"login"`
	ID    *int64  `json:"id"`
}

// Repository mirrors one element of the REST "list repositories for a user" response.
//
// ID holds the repository's network root id, which is the only numeric id the
// repository page exposes. For forks it is the id of the upstream root.
//
//nolint:govet // fieldalignment: field order follows the REST payload
type Repository struct {
	Name            *string  `json:"name"`
	FullName        *string  `json:"full_name"`
	Owner           Owner    `json:"owner"`
	HTMLURL         *string  `json:"html_url"`
	ID              *int64   `json:"id"`
	Private         bool     `json:"private"`
	Description     *string  `json:"description"`
	Fork            *bool    `json:"fork"`
	URL             *string  `json:"url"`
	Homepage        *string  `json:"homepage"`
	Language        *string  `json:"language"`
	ForksCount      *int     `json:"forks_count"`
	StargazersCount *int     `json:"stargazers_count"`
	WatchersCount   *int     `json:"watchers_count"`
	DefaultBranch   *string  `json:"default_branch"`
	OpenIssuesCount *int     `json:"open_issues_count"`
	HasIssues       *bool    `json:"has_issues"`
	Topics          []string `json:"topics"`
	HasProjects     *bool    `json:"has_projects"`
	HasDiscussions  bool     `json:"has_discussions"`
	Archived        bool     `json:"archived"`
	PushedAt        *string  `json:"pushed_at"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
