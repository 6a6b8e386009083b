// Package browser drives a headless Chromium instance for page scans.
//
// A Launcher starts one browser process per Session. Each Session owns an
// isolated incognito browsing context that ignores TLS certificate errors,
// and must be closed by the caller on every exit path; Close tears down the
// context, the browser process and its temporary profile directory.
//
// The concrete implementation uses go-rod. Consumers depend on the Launcher,
// Session and Page interfaces so scans can be exercised without a browser.
package browser
