package objectstore

import (
	"net/url"
	"strings"
)

const (
	firebaseHost = "firebasestorage.googleapis.com"
	gcsHost      = "storage.googleapis.com"
)

// firebaseURL is the download URL Firebase Storage clients expect. The
// object path is a single escaped segment.
func firebaseURL(bucket, key, token string) string {
	u := "https://" + firebaseHost + "/v0/b/" + bucket + "/o/" +
		strings.ReplaceAll(url.PathEscape(key), "/", "%2F") + "?alt=media"
	if token != "" {
		u += "&token=" + token
	}
	return u
}

// gcsKeyFromURL accepts both Firebase download URLs and plain
// storage.googleapis.com URLs for bucket.
func gcsKeyFromURL(bucket, rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return "", false
	}
	var key string
	var ok bool
	switch u.Host {
	case firebaseHost:
		key, ok = strings.CutPrefix(u.Path, "/v0/b/"+bucket+"/o/")
	case gcsHost:
		key, ok = strings.CutPrefix(u.Path, "/"+bucket+"/")
	}
	if !ok || !validKey(key) {
		return "", false
	}
	return key, true
}
