// Package models defines the editorial entities and the persistence interfaces over them.
//
// Entities:
//   - [Medium] : an Article, Spotify segment or Video with its own editorial lifecycle ([Status])
//   - [Content] : a schedulable piece of editorial output, optionally wrapping one medium through [MediumRef]
//   - [List] : a weekly, monthly, video or special scheduling bucket with assignments and links
//   - [Reunion] : a meeting record with a checklist of [Point] items
//   - [User] : an editor or author
//
// All entities implement [Model]; the repositories package implements [Repository] for each of them.
//
// [MediumRef] is a tagged union: the zero value means "no medium", otherwise Kind names which
// medium table the ID belongs to and must agree with the owning Content's [ContentType].
package models
