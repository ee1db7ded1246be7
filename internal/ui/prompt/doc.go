// Package prompt provides the single-question prompts used by commands
// when a required value is missing and stdin is a terminal.
//
//   - [Confirm]: yes/no question, used before destructive actions like reset
//   - [TextInput]: one line of text, such as the version of a new release
//   - [Select]: pick one entry, such as the release branch to merge
//
// Prompts render on stderr so stdout stays clean for piping.
package prompt
