// Package cliui provides reusable terminal UI helpers for emily CLI commands.
package cliui

import "github.com/charmbracelet/lipgloss"

var (
	FailMark = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	KeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	NameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	DimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
