package github

import (
	"context"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// userPage is the input of a user rule.
type userPage struct {
	doc      *html.Node
	username string
	htmlURL  string
}

// userRule fills one REST field of a User. A rule that finds nothing leaves the
// field null.
type userRule struct {
	field string
	apply func(p *userPage, u *profile.User)
}

// User returns the REST "get a user" record for username.
func (c *Client) User(ctx context.Context, username string) (*profile.User, error) {
	doc, err := c.profilePage(ctx, username)
	if err != nil {
		return nil, err
	}
	kind := kindOf(doc)
	c.logger.InfoContext(ctx, "extracting user", "username", username, "kind", kind)
	return extractUser(doc, kind, username, c.profileURL(username)), nil
}

func extractUser(doc *html.Node, kind profile.Kind, username, htmlURL string) *profile.User {
	rules := personRules
	if kind == profile.KindOrganization {
		rules = orgRules
	}
	p := &userPage{doc: doc, username: username, htmlURL: htmlURL}
	u := &profile.User{}
	for _, r := range rules {
		r.apply(p, u)
	}
	return u
}

func find(n *html.Node, tag string, conds ...htmlutil.Matcher) *html.Node {
	return htmlutil.Find(n, htmlutil.Element(tag, conds...))
}

func itemprop(v string) htmlutil.Matcher { return htmlutil.AttrEquals("itemprop", v) }

func twitterRule(p *userPage, u *profile.User) {
	u.TwitterUsername = twitterHandle(htmlutil.Find(p.doc, htmlutil.Element("a", isTwitterLink)))
}

var personRules = []userRule{
	{"login", func(p *userPage, u *profile.User) {
		u.Login = textOf(find(p.doc, "span", htmlutil.HasClass("p-nickname", "vcard-username"), itemprop("additionalName")))
	}},
	{"avatar_url", func(p *userPage, u *profile.User) {
		u.AvatarURL = attrOf(find(p.doc, "a", itemprop("image")), "href")
	}},
	{"id", func(_ *userPage, u *profile.User) { u.ID = avatarID(u.AvatarURL) }},
	{"url", func(p *userPage, u *profile.User) { u.URL = apiUserURL(p.username) }},
	{"html_url", func(p *userPage, u *profile.User) { u.HTMLURL = profile.Ptr(p.htmlURL) }},
	{"type", func(_ *userPage, u *profile.User) { u.Type = profile.KindPerson.APIType() }},
	{"name", func(p *userPage, u *profile.User) {
		u.Name = textOf(find(p.doc, "span", htmlutil.HasClass("p-name", "vcard-fullname"), itemprop("name")))
	}},
	{"company", func(p *userPage, u *profile.User) {
		u.Company = textOf(find(p.doc, "span", htmlutil.HasClass("p-org")))
	}},
	{"blog", func(p *userPage, u *profile.User) {
		u.Blog = textOf(find(find(p.doc, "li", itemprop("url")), "a"))
	}},
	{"location", func(p *userPage, u *profile.User) {
		u.Location = textOf(find(find(p.doc, "li", itemprop("homeLocation")), "span"))
	}},
	{"bio", func(p *userPage, u *profile.User) {
		u.Bio = textOf(find(find(p.doc, "div", htmlutil.HasClass("p-note", "user-profile-bio")), "div"))
	}},
	{"twitter_username", twitterRule},
	{"public_repos", func(p *userPage, u *profile.User) {
		u.PublicRepos = countOf(find(find(p.doc, "a", hrefEndsWith("/"+p.username+"?tab=repositories")), "span"))
	}},
	{"followers", func(p *userPage, u *profile.User) {
		u.Followers = countOf(find(find(p.doc, "a", hrefEndsWith("/"+p.username+"?tab=followers")), "span"))
	}},
	{"following", func(p *userPage, u *profile.User) {
		u.Following = countOf(find(find(p.doc, "a", hrefEndsWith("/"+p.username+"?tab=following")), "span"))
	}},
}

var orgRules = []userRule{
	{"login", func(p *userPage, u *profile.User) {
		u.Login = attrOf(find(p.doc, "meta", htmlutil.AttrEquals("property", "profile:username")), "content")
	}},
	{"avatar_url", func(p *userPage, u *profile.User) {
		u.AvatarURL = attrOf(find(p.doc, "img", itemprop("image")), "src")
	}},
	{"id", func(_ *userPage, u *profile.User) { u.ID = avatarID(u.AvatarURL) }},
	{"url", func(p *userPage, u *profile.User) { u.URL = apiUserURL(p.username) }},
	{"html_url", func(p *userPage, u *profile.User) {
		u.HTMLURL = attrOf(find(p.doc, "meta", htmlutil.AttrEquals("property", "og:url")), "content")
	}},
	{"type", func(_ *userPage, u *profile.User) { u.Type = profile.KindOrganization.APIType() }},
	{"name", func(p *userPage, u *profile.User) {
		u.Name = textOf(find(p.doc, "h1", htmlutil.HasClass("h2", "lh-condensed")))
	}},
	{"company", func(_ *userPage, u *profile.User) { u.Company = nil }},
	{"blog", func(p *userPage, u *profile.User) {
		u.Blog = attrOf(find(p.doc, "a", itemprop("url")), "href")
	}},
	{"location", func(p *userPage, u *profile.User) {
		u.Location = textOf(find(p.doc, "span", itemprop("location")))
	}},
	{"bio", func(p *userPage, u *profile.User) {
		u.Bio = textOf(find(find(p.doc, "div", htmlutil.HasClass("color-fg-muted")), "div"))
	}},
	{"twitter_username", twitterRule},
	{"public_repos", func(p *userPage, u *profile.User) {
		u.PublicRepos = countOf(firstWithChild(p.doc,
			htmlutil.Element("a", htmlutil.AttrContains("href", "repositories")),
			htmlutil.Element("span", htmlutil.HasClass("Counter", "js-profile-repository-count"))))
	}},
	{"followers", func(p *userPage, u *profile.User) {
		u.Followers = countOf(firstWithChild(p.doc,
			htmlutil.Element("a", htmlutil.AttrContains("href", "followers")),
			htmlutil.Element("span")))
	}},
	{"following", func(_ *userPage, u *profile.User) { u.Following = profile.Ptr(0) }},
}
