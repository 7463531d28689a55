// Package catalog defines the media item shape shared between the request
// catalog surfaces and the availability annotator.
package catalog
