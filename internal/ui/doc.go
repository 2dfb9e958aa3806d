// Package ui holds the line-based terminal interaction: yes/no and choice
// prompts, and the Approver implementations consulted before an existing
// series is replaced.
package ui
