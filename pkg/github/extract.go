package github

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// Field-level helpers. Each returns nil when the node is missing or blank, which
// is how a selector miss becomes a JSON null.

func textOf(n *html.Node) *string {
	if n == nil {
		return nil
	}
	if s := htmlutil.Text(n); s != "" {
		return &s
	}
	return nil
}

func attrOf(n *html.Node, key string) *string {
	v, ok := htmlutil.Attr(n, key)
	if !ok {
		return nil
	}
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}

func countOf(n *html.Node) *int {
	s := textOf(n)
	if s == nil {
		return nil
	}
	c, err := ParseCount(*s)
	if err != nil {
		return nil
	}
	return &c
}

func int64Of(s *string) *int64 {
	if s == nil {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// avatarID returns the numeric account id embedded in an avatar URL such as
// https://avatars.githubusercontent.com/u/583231?v=4.
func avatarID(avatarURL *string) *int64 {
	if avatarURL == nil {
		return nil
	}
	s, _, _ := strings.Cut(*avatarURL, "?")
	last := s[strings.LastIndex(s, "/")+1:]
	return int64Of(&last)
}

// hrefEndsWith matches links whose href ends with suffix, ignoring case, so a
// request for "octocat" still finds links rendered as "/Octocat?tab=...".
func hrefEndsWith(suffix string) htmlutil.Matcher {
	return func(n *html.Node) bool {
		v, ok := htmlutil.Attr(n, "href")
		if !ok || len(v) < len(suffix) {
			return false
		}
		return strings.EqualFold(v[len(v)-len(suffix):], suffix)
	}
}

// isTwitterLink matches links pointing at a twitter.com or x.com account.
func isTwitterLink(n *html.Node) bool {
	v, ok := htmlutil.Attr(n, "href")
	if !ok {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	switch strings.TrimPrefix(strings.ToLower(u.Host), "www.") {
	case "twitter.com", "x.com":
		return true
	default:
		return false
	}
}

// twitterHandle reads the handle from a Twitter link, preferring the link text.
func twitterHandle(n *html.Node) *string {
	if n == nil {
		return nil
	}
	if s := textOf(n); s != nil {
		if h := strings.TrimPrefix(*s, "@"); h != "" {
			return &h
		}
	}
	v, _ := htmlutil.Attr(n, "href")
	u, err := url.Parse(v)
	if err != nil {
		return nil
	}
	if h := path.Base(strings.TrimSuffix(u.Path, "/")); h != "" && h != "." && h != "/" {
		return &h
	}
	return nil
}

// firstWithChild returns the first node matching inner inside the first node
// matching outer that has one.
func firstWithChild(doc *html.Node, outer, inner htmlutil.Matcher) *html.Node {
	for _, n := range htmlutil.FindAll(doc, outer) {
		if c := htmlutil.Find(n, inner); c != nil {
			return c
		}
	}
	return nil
}

func apiUserURL(username string) *string {
	return profile.Ptr(APIBaseURL + "/users/" + username)
}
