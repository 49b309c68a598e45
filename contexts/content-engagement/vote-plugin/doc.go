// Package voteplugin implements the vote/unvote schema plugin inside the
// content-engagement context.
//
// Apply attaches an ordered, duplicate-free votes path to any odm schema and
// registers the vote and unvote instance methods. The module around it exposes
// the same behaviors as commands over a document repository (memory, postgres
// or datastore backed) and publishes vote events when a set changes.
package voteplugin
