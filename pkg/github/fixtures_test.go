package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/hubscrape/pkg/fetch"
)

const personPage = `<!DOCTYPE html>
<html><head><title>octocat (The Octocat)</title></head><body>
<div class="js-profile-editable-replace">
<div class="h-card mt-md-n5" data-acv-badge-hovercards-enabled>
  <a itemprop="image" href="https://avatars.githubusercontent.com/u/583231?v=4"><img class="avatar" alt="View octocat's full-sized avatar"></a>
  <h1 class="vcard-names">
    <span class="p-name vcard-fullname d-block overflow-hidden" itemprop="name">
      The Octocat
    </span>
    <span class="p-nickname vcard-username d-block" itemprop="additionalName">octocat</span>
  </h1>
  <div class="p-note user-profile-bio mb-3"><div>GitHub mascot</div></div>
  <div class="flex-order-1">
    <a class="Link--secondary no-underline" href="https://github.com/octocat?tab=followers"><span class="text-bold color-fg-default">17.5k</span> followers</a>
    <a class="Link--secondary no-underline" href="https://github.com/octocat?tab=following"><span class="text-bold color-fg-default">9</span> following</a>
  </div>
  <ul class="vcard-details">
    <li class="vcard-detail" itemprop="worksFor"><span class="p-org">@github</span></li>
    <li class="vcard-detail" itemprop="homeLocation"><span class="p-label">San Francisco</span></li>
    <li class="vcard-detail" itemprop="url"><a rel="nofollow me" href="https://github.blog">https://github.blog</a></li>
    <li class="vcard-detail"><a rel="nofollow me" href="https://twitter.com/github">@github</a></li>
  </ul>
</div>
</div>
<nav>
  <a class="UnderlineNav-item" href="/octocat?tab=repositories">Repositories <span class="Counter">8</span></a>
</nav>
</body></html>`

const personListing = `<!DOCTYPE html>
<html><body>
<a itemprop="image" href="https://avatars.githubusercontent.com/u/583231?v=4"><img class="avatar"></a>
<div id="user-repositories-list">
<ul>
<li class="col-12 d-flex flex-justify-between width-full py-4 border-bottom color-border-muted public source">
  <div>
    <h3><a href="/octocat/Spoon-Knife" itemprop="name codeRepository"> Spoon-Knife</a>
    <span class="Label Label--secondary v-align-middle mr-1">Public</span></h3>
    <p class="col-9 d-inline-block" itemprop="description">This repo is for demonstration purposes only.</p>
    <div class="topics-row-container">
      <a class="topic-tag topic-tag-link f6 my-1" href="/topics/demo">demo</a>
      <a class="topic-tag topic-tag-link f6 my-1" href="/topics/forks">forks</a>
    </div>
    <span itemprop="programmingLanguage">HTML</span>
    Updated <relative-time datetime="2024-08-21T16:42:47Z" class="no-wrap">Aug 21, 2024</relative-time>
  </div>
</li>
<li class="col-12 d-flex flex-justify-between width-full py-4 border-bottom color-border-muted public source">
  <div>
    <h3><a href="/octocat/hello-world" itemprop="name codeRepository">hello-world</a>
    <span class="Label Label--secondary v-align-middle mr-1">Public archive</span></h3>
    Updated <relative-time datetime="2023-01-01T00:00:00Z" class="no-wrap">Jan 1, 2023</relative-time>
  </div>
</li>
<li class="col-12 d-flex flex-justify-between width-full py-4 border-bottom color-border-muted private source">
  <div>
    <h3><a href="/octocat/linguist" itemprop="name codeRepository">linguist</a>
    <span class="Label Label--secondary v-align-middle mr-1">Private</span></h3>
    <span itemprop="programmingLanguage">Ruby</span>
    Updated <relative-time datetime="2025-02-01T09:30:00Z" class="no-wrap">Feb 1</relative-time>
  </div>
</li>
</ul>
</div>
</body></html>`

const spoonKnifePage = `<!DOCTYPE html>
<html><head>
<meta name="octolytics-dimension-repository_network_root_id" content="1300192">
<meta name="octolytics-dimension-repository_is_fork" content="false">
</head><body>
<nav>
  <a id="issues-tab" href="/octocat/Spoon-Knife/issues">Issues <span id="issues-repo-tab-count" class="Counter">1,024</span></a>
  <a id="projects-tab" href="/octocat/Spoon-Knife/projects">Projects <span id="projects-repo-tab-count" class="Counter">2</span></a>
  <a id="discussions-tab" href="/octocat/Spoon-Knife/discussions">Discussions</a>
</nav>
<span id="repo-network-counter" class="Counter">145k</span>
<span id="repo-stars-counter-star" class="Counter">12.8k</span>
<summary><span class="css-truncate-target" data-menu-button title="main-development-branch">main-developm…</span></summary>
<div class="BorderGrid-cell">
  <a class="mr-lg-3 color-fg-inherit flex-order-2" href="https://octocat.github.io">octocat.github.io</a>
</div>
</body></html>`

const linguistPage = `<!DOCTYPE html>
<html><head>
<meta name="octolytics-dimension-repository_network_root_id" content="1725199">
<meta name="octolytics-dimension-repository_is_fork" content="true">
</head><body>
<span class="css-truncate-target">master</span>
<span id="repo-stars-counter-star" class="Counter">oops</span>
</body></html>`

const orgPage = `<!DOCTYPE html>
<html><head>
<meta property="profile:username" content="github">
<meta property="og:url" content="https://github.com/github">
</head><body>
<div class="container-xl">
  <img itemprop="image" class="avatar" src="https://avatars.githubusercontent.com/u/9919?s=200&amp;v=4" alt="@github">
  <h1 class="h2 lh-condensed">GitHub</h1>
  <div class="color-fg-muted"><div>How people build software.</div></div>
  <ul>
    <li><span itemprop="location">San Francisco, CA</span></li>
    <li><a itemprop="url" rel="nofollow" href="https://github.com/about">https://github.com/about</a></li>
    <li><a href="https://x.com/github">@github</a></li>
  </ul>
  <a href="/orgs/github/followers"><span class="text-bold">45.1k</span> followers</a>
</div>
<nav>
  <a href="/orgs/github/repositories">Repositories <span class="Counter js-profile-repository-count">512</span></a>
</nav>
</body></html>`

const orgListing = `<!DOCTYPE html>
<html><body>
<a class="color-fg-default no-underline" data-name="github" href="/github">GitHub</a>
<img itemprop="image" src="https://avatars.githubusercontent.com/u/9919?s=200&amp;v=4">
<ul>
<li class="Box-row">
  <h3><a href="/github/docs" itemprop="name codeRepository">docs</a>
  <span class="Label Label--secondary">Public</span></h3>
  <p itemprop="description">The open-source repo for docs.github.com</p>
  <relative-time datetime="2025-03-02T10:00:00Z">Mar 2</relative-time>
</li>
<li class="Box-row">
  <h3><a href="/github/gitignore" itemprop="name codeRepository">gitignore</a></h3>
  <relative-time datetime="2025-01-15T10:00:00Z">Jan 15</relative-time>
</li>
</ul>
</body></html>`

// fakeSite serves pages keyed by path plus raw query. Unknown keys are 404,
// and keys listed in status are answered with that status instead.
type fakeSite struct {
	pages  map[string]string
	status map[string]int
	delay  map[string]time.Duration
}

func (s *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}
	if d := s.delay[key]; d > 0 {
		time.Sleep(d)
	}
	if code, ok := s.status[key]; ok {
		w.WriteHeader(code)
		return
	}
	body, ok := s.pages[key]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body)) //nolint:errcheck // test helper
}

func defaultSite() *fakeSite {
	return &fakeSite{
		pages: map[string]string{
			"/octocat":                  personPage,
			"/octocat?tab=repositories": personListing,
			"/octocat/Spoon-Knife":      spoonKnifePage,
			"/octocat/linguist":         linguistPage,
			"/github":                   orgPage,
			"/orgs/github/repositories": orgListing,
		},
		status: map[string]int{},
		delay:  map[string]time.Duration{},
	}
}

func newTestClient(t *testing.T, site http.Handler, opts ...Option) (*Client, string) {
	t.Helper()
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	f := fetch.New(fetch.WithRetryDelay(0), fetch.WithTimeout(5*time.Second))
	opts = append([]Option{WithFetcher(f), WithBaseURL(server.URL)}, opts...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c, server.URL
}
