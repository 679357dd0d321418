package ui

import (
	"fmt"
	"strings"

	"wingman/pkg/manager"

	"github.com/manifoldco/promptui"
)

// Confirm prompts the user for yes/no confirmation.
func Confirm(prompt string, defaultYes bool) (bool, error) {
	label := prompt
	if defaultYes {
		label += " [Y/n]"
	} else {
		label += " [y/N]"
	}

	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   "",
	}

	if defaultYes {
		p.Default = "y"
	}

	result, err := p.Run()
	if err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return defaultYes, nil // Return default on error
	}

	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes, nil
	}

	return result == "y" || result == "yes", nil
}

// SelectPackage prompts the user to select a package from a list.
func SelectPackage(packages []manager.Package, prompt string) (*manager.Package, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("no packages to select from")
	}

	if len(packages) == 1 {
		return &packages[0], nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ .Name | cyan }} {{ .ID | faint }} {{ .CurrentVersion | green }} [{{ .Source | magenta }}]",
		Inactive: "  {{ .Name }} {{ .ID | faint }} {{ .CurrentVersion | faint }} [{{ .Source | faint }}]",
		Selected: "✓ {{ .Name | cyan }} {{ .CurrentVersion | green }} [{{ .Source | magenta }}]",
		Details: `
--------- Package ----------
{{ "Name:" | faint }}	{{ .Name }}
{{ "Id:" | faint }}	{{ .ID }}
{{ "Version:" | faint }}	{{ .CurrentVersion }}
{{ "Source:" | faint }}	{{ .Source }}`,
	}

	searcher := func(input string, index int) bool {
		pkg := packages[index]
		input = strings.ToLower(input)
		return strings.Contains(strings.ToLower(pkg.Name), input) ||
			strings.Contains(strings.ToLower(pkg.ID), input)
	}

	p := promptui.Select{
		Label:     prompt,
		Items:     packages,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	index, _, err := p.Run()
	if err != nil {
		return nil, err
	}

	return &packages[index], nil
}
