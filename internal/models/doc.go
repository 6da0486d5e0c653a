// Package models defines the data model for the assignment sync service.
//
// All types are plain value records: a [Course] owns an ordered sequence of
// [Assignment] values pulled from Canvas, and a [Space] groups the ClickUp
// [TargetList] containers that receive generated tasks. None of them carry
// behavior beyond validation; mutation happens by replacing fields, not
// through methods on a hierarchy.
//
// [GenerationRequest] mirrors the wire shape of the inbound generation
// message and validates fully before any remote call is issued. [Settings]
// is the durable configuration document: credentials, the cached Space/list
// tree, and the course ignore list.
package models
