// Package testutil provides helpers shared by rulesplit tests.
//
// Key components:
//   - Isolate: points XDG directories and RULESPLIT_ variables at a temp dir
//   - CreateFile / ReadFile / AssertNoFile: small filesystem helpers
//   - SourceServer: an httptest server that serves a rule list and can be
//     told to redirect, fail, or loop
package testutil
