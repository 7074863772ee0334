// Package githubpath converts inbound proxy paths into GitHub raw-content and
// release-asset URLs. Everything here is pure string work so the shape
// precedence can be tested without a network; the proxy package owns the fetch.
package githubpath
