// Package repository defines the data access interfaces for blogauto.
//
// The sqlite subpackage persists drafts: the content of an editing surface,
// written each time the simulator's content-update notification fires. The
// presence simulation itself is never persisted.
package repository
