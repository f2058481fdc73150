// Package models defines the data model shared across the download service:
// song descriptors, per-item and batch status records, and the completed
// download history entry.
//
// Song descriptors are immutable inputs. ItemStatus records transition
// pending → downloading → finished|error; finished and error are terminal and
// once reached the status field never changes again.
package models
