package github

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

func metaName(name string) htmlutil.Matcher {
	return htmlutil.Element("meta", htmlutil.AttrEquals("name", name))
}

func byID(tag, id string) htmlutil.Matcher {
	return htmlutil.Element(tag, htmlutil.AttrEquals("id", id))
}

// detailRules run in order against a repository page; has_issues reads the
// count filled by open_issues_count.
var detailRules = []repoRule{
	{"id", func(n *html.Node, r *profile.Repository) {
		r.ID = int64Of(attrOf(htmlutil.Find(n, metaName("octolytics-dimension-repository_network_root_id")), "content"))
	}},
	{"fork", func(n *html.Node, r *profile.Repository) {
		if v := attrOf(htmlutil.Find(n, metaName("octolytics-dimension-repository_is_fork")), "content"); v != nil {
			r.Fork = profile.Ptr(*v == "true")
		}
	}},
	{"homepage", func(n *html.Node, r *profile.Repository) {
		r.Homepage = textOf(find(n, "a", htmlutil.HasClass("mr-lg-3", "color-fg-inherit", "flex-order-2")))
	}},
	{"forks_count", func(n *html.Node, r *profile.Repository) {
		r.ForksCount = countOf(htmlutil.Find(n, byID("span", "repo-network-counter")))
	}},
	{"stargazers_count", func(n *html.Node, r *profile.Repository) {
		r.StargazersCount = countOf(htmlutil.Find(n, byID("span", "repo-stars-counter-star")))
	}},
	{"watchers_count", func(_ *html.Node, r *profile.Repository) { r.WatchersCount = r.StargazersCount }},
	{"default_branch", func(n *html.Node, r *profile.Repository) {
		b := find(n, "span", htmlutil.HasClass("css-truncate-target"))
		if r.DefaultBranch = attrOf(b, "title"); r.DefaultBranch == nil {
			r.DefaultBranch = textOf(b)
		}
	}},
	{"open_issues_count", func(n *html.Node, r *profile.Repository) {
		r.OpenIssuesCount = countOf(htmlutil.Find(n, byID("span", "issues-repo-tab-count")))
	}},
	{"has_issues", func(_ *html.Node, r *profile.Repository) {
		if r.OpenIssuesCount != nil {
			r.HasIssues = profile.Ptr(*r.OpenIssuesCount > 0)
		}
	}},
	{"has_projects", func(n *html.Node, r *profile.Repository) {
		projects := 0
		if c := countOf(htmlutil.Find(n, byID("span", "projects-repo-tab-count"))); c != nil {
			projects = *c
		}
		r.HasProjects = profile.Ptr(projects > 0)
	}},
	{"has_discussions", func(n *html.Node, r *profile.Repository) {
		r.HasDiscussions = htmlutil.Find(n, byID("a", "discussions-tab")) != nil
	}},
}

// fillDetail fetches the repository page once and applies detailRules to r.
// A missing or empty page leaves every detail field null.
func (c *Client) fillDetail(ctx context.Context, r *profile.Repository) error {
	if r.HTMLURL == nil {
		return nil
	}
	doc, err := c.fetcher.Fetch(ctx, *r.HTMLURL)
	if errors.Is(err, profile.ErrNotFound) || errors.Is(err, profile.ErrNoData) {
		c.logger.DebugContext(ctx, "repository page unavailable", "url", *r.HTMLURL, "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("repository %s: %w", *r.HTMLURL, err)
	}
	for _, rule := range detailRules {
		rule.apply(doc, r)
	}
	return nil
}
