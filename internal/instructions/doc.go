// Package instructions edits the engine-owned blocks of agent instruction
// files such as CLAUDE.md or AGENTS.md.
//
// A block is a marker pair with content between. Everything outside the
// markers belongs to the user and is never changed. Edits are computed as a
// [Region] value over the file text and applied in one write by the caller.
package instructions
