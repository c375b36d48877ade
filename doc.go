// Package shopgate implements the request-dispatch and static-content
// delivery pipeline that fronts an e-commerce application.
//
// Every inbound path is classified as an API call, a static asset, or a
// frontend navigation. API calls are handed off unmodified to an injected
// dispatcher. Asset paths are resolved against a fixed list of allowed
// roots with traversal and sensitive-file protection, then served with
// cache, compression, and content-versioning policy applied. Frontend
// paths are matched against a route table and answered with the SPA shell
// document, with route data and SEO tags injected.
//
// # Key Components
//
//   - Classifier: pure, total path classification (api / asset / frontend)
//   - Validator: path resolution against allowed roots with security checks
//   - VersionEngine: deterministic content fingerprints for cache busting
//   - RouteTable: exact and pattern-based frontend route recognition
//
// The http package provides the chi-based delivery handlers built on these
// components; the config package loads and validates process configuration.
//
// The subsystem is stateless across requests except for the in-memory
// version cache. It performs no writes to the filesystem and makes no
// authorization decisions.
package shopgate
