package github

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// repoRule fills one or more REST fields of a Repository from a node: a listing
// entry for summary rules, a repository page for detail rules.
type repoRule struct {
	field string
	apply func(n *html.Node, r *profile.Repository)
}

var (
	personEntry = htmlutil.Element("li",
		htmlutil.HasClass("col-12", "d-flex", "flex-justify-between", "width-full", "py-4", "border-bottom"))
	orgEntry = htmlutil.Element("li", htmlutil.HasClass("Box-row"))

	repoNameLink = htmlutil.Element("a", itemprop("name codeRepository"))
	relativeTime = htmlutil.Element("relative-time")
)

// visibility returns the text of the entry's visibility label, e.g. "Public",
// "Private" or "Public archive".
// The private rule treats "Public archive" as public.
func visibility(entry *html.Node) (string, bool) {
	s := textOf(find(entry, "span", htmlutil.HasClass("Label", "Label--secondary")))
	if s == nil {
		return "", false
	}
	return *s, true
}

var summaryRules = []repoRule{
	{"name", func(n *html.Node, r *profile.Repository) { r.Name = textOf(htmlutil.Find(n, repoNameLink)) }},
	{"full_name", func(n *html.Node, r *profile.Repository) {
		if href := attrOf(htmlutil.Find(n, repoNameLink), "href"); href != nil {
			r.FullName = profile.Ptr(strings.TrimPrefix(*href, "/"))
		}
	}},
	{"description", func(n *html.Node, r *profile.Repository) {
		r.Description = textOf(find(n, "p", itemprop("description")))
	}},
	{"language", func(n *html.Node, r *profile.Repository) {
		r.Language = textOf(find(n, "span", itemprop("programmingLanguage")))
	}},
	{"topics", func(n *html.Node, r *profile.Repository) {
		r.Topics = []string{}
		for _, t := range htmlutil.FindAll(n, htmlutil.Element("a", htmlutil.HasClass("topic-tag", "topic-tag-link"))) {
			if s := htmlutil.Text(t); s != "" {
				r.Topics = append(r.Topics, s)
			}
		}
	}},
	{"private", func(n *html.Node, r *profile.Repository) {
		label, ok := visibility(n)
		r.Private = !ok || strings.TrimSpace(strings.TrimSuffix(label, " archive")) != "Public"
	}},
	{"archived", func(n *html.Node, r *profile.Repository) {
		label, _ := visibility(n)
		r.Archived = strings.Contains(strings.ToLower(label), "archive")
	}},
	{"pushed_at", func(n *html.Node, r *profile.Repository) {
		r.PushedAt = attrOf(htmlutil.Find(n, relativeTime), "datetime")
	}},
}

// extractSummary builds the listing-derived part of a repository record.
func (c *Client) extractSummary(entry *html.Node, owner profile.Owner) *profile.Repository {
	r := &profile.Repository{Owner: owner, Topics: []string{}}
	for _, rule := range summaryRules {
		rule.apply(entry, r)
	}
	if href := attrOf(htmlutil.Find(entry, repoNameLink), "href"); href != nil {
		path := "/" + strings.TrimPrefix(*href, "/")
		r.HTMLURL = profile.Ptr(c.baseURL + path)
		r.URL = profile.Ptr(APIBaseURL + "/repos" + path)
	}
	return r
}

// listingOwner builds the owner object shared by every entry of a listing.
func listingOwner(doc *html.Node, kind profile.Kind, username string) profile.Owner {
	if kind == profile.KindPerson {
		return profile.Owner{
			Login: profile.Ptr(username),
			ID:    avatarID(attrOf(find(doc, "a", itemprop("image")), "href")),
		}
	}
	login := attrOf(find(doc, "a", htmlutil.HasClass("color-fg-default", "no-underline")), "data-name")
	if login == nil {
		login = profile.Ptr(username)
	}
	return profile.Owner{
		Login: login,
		ID:    avatarID(attrOf(find(doc, "img", itemprop("image")), "src")),
	}
}

// entry is a listing item together with its sort keys.
type entry struct {
	node     *html.Node
	name     string
	pushedAt string
}

func listingEntries(doc *html.Node, kind profile.Kind) []entry {
	m := personEntry
	if kind == profile.KindOrganization {
		m = orgEntry
	}
	nodes := htmlutil.FindAll(doc, m)
	out := make([]entry, 0, len(nodes))
	for _, n := range nodes {
		e := entry{node: n, name: strings.ToLower(htmlutil.Text(htmlutil.Find(n, htmlutil.Element("a"))))}
		e.pushedAt, _ = htmlutil.Attr(htmlutil.Find(n, relativeTime), "datetime")
		out = append(out, e)
	}
	return out
}

// sortEntries orders entries in place. Ties keep markup order in both directions.
func sortEntries(entries []entry, field profile.SortField, dir profile.Direction) {
	key := func(e entry) string { return e.name }
	if field == profile.SortPushed {
		key = func(e entry) string { return e.pushedAt }
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		c := cmp.Compare(key(a), key(b))
		if dir == profile.Desc {
			return -c
		}
		return c
	})
}
