// Package cleaner sequences the cleanup stages over one source directory:
// temp-file removal, duplicate detection, categorization, and the optional
// PDF merge. It owns the run lock, the history session lifecycle, and the
// per-file error policy (count and continue; only setup failures abort).
//
// Undo replays the most recent history session in reverse and is housed here
// because it shares the lock and the collision rules with the forward pass.
package cleaner
