// Package vudials is a client for the VU dial server HTTP API.
//
// DialClient authenticates with a dial API key (the key= query parameter) and
// drives individual dials. AdminClient authenticates with the admin key
// (admin_key=) and manages API keys and hardware provisioning. Every method
// issues exactly one request and returns the raw response; responses with a
// status of 400 or above come back as *httpclient.StatusError.
package vudials
