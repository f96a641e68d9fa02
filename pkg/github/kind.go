package github

import (
	"golang.org/x/net/html"

	"github.com/codeGROOVE-dev/hubscrape/pkg/htmlutil"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
)

// personMarker matches the vcard header only rendered on personal profiles.
var personMarker = htmlutil.Element("div", htmlutil.HasClass("h-card", "mt-md-n5"))

// kindOf classifies a fetched profile page.
func kindOf(doc *html.Node) profile.Kind {
	if htmlutil.Find(doc, personMarker) != nil {
		return profile.KindPerson
	}
	return profile.KindOrganization
}
