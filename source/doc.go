// Package source reads conversation exports into domain rows.
//
// The supported format is the CSV export layout produced by chat
// integrations: Timestamp, User ID, User Name, Channel, Message,
// Attachments, Parent Message Timestamp. Column order is not assumed;
// columns are located by header name.
package source
