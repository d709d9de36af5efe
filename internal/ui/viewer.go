package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tdisc/internal/discovery"
	"tdisc/internal/domain"
)

// Viewer displays discovery results interactively
type Viewer interface {
	View(report *domain.DiscoveryReport) error
}

// TestBrowser displays discovered test cases in a tree grouped by source
type TestBrowser struct {
	filter *discovery.Filter
}

// NewTestBrowser creates a new TestBrowser
func NewTestBrowser() *TestBrowser {
	return &TestBrowser{filter: discovery.NewFilter()}
}

// View runs the browser until the user quits
func (b *TestBrowser) View(report *domain.DiscoveryReport) error {
	app := tview.NewApplication()

	tree := tview.NewTreeView().
		SetGraphics(true).
		SetGraphicsColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	filterInput := tview.NewInputField().
		SetLabel("Filter: ").
		SetFieldWidth(0)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func(shown int) {
		headerView.SetText(fmt.Sprintf(
			" Discovered Tests (%d of %d) | Use ↑↓ to navigate, Enter to expand, [yellow]/[white] to filter, Esc to go back, q to exit ",
			shown, len(report.Tests)))
	}

	showNode := func(node *tview.TreeNode) {
		if node == nil {
			return
		}
		switch ref := node.GetReference().(type) {
		case domain.TestCase:
			statsView.SetText(formatTestStats(ref))
			detailsView.SetText(formatTestDetails(ref))
		case string:
			statsView.SetText(fmt.Sprintf("[cyan]source:[white] [yellow]%s[white]", tview.Escape(ref)))
			detailsView.SetText(fmt.Sprintf("%d test case(s)", len(node.GetChildren())))
		default:
			statsView.SetText("")
			detailsView.SetText("")
		}
	}

	rebuild := func(pattern string) {
		tests := b.filter.FilterByName(report.Tests, pattern)
		root := buildTree(tests)
		tree.SetRoot(root)
		if children := root.GetChildren(); len(children) > 0 {
			tree.SetCurrentNode(children[0])
		} else {
			tree.SetCurrentNode(root)
		}
		updateHeader(len(tests))
		showNode(tree.GetCurrentNode())
	}

	tree.SetChangedFunc(showNode)
	tree.SetSelectedFunc(func(node *tview.TreeNode) {
		if len(node.GetChildren()) > 0 {
			node.SetExpanded(!node.IsExpanded())
		}
	})

	tree.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				app.Stop()
				return nil
			case '/':
				app.SetFocus(filterInput)
				return nil
			}
		}
		return event
	})

	filterInput.SetChangedFunc(rebuild)
	filterInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEsc {
			filterInput.SetText("")
		}
		app.SetFocus(tree)
	})

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(tree, 0, 1, true).
		AddItem(rightSide, 0, 1, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(filterInput, 1, 0, false).
		AddItem(body, 0, 1, true)

	rebuild("")

	if err := app.SetRoot(layout, true).SetFocus(tree).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// buildTree creates one node per source with its test cases as children
func buildTree(tests []domain.TestCase) *tview.TreeNode {
	report := domain.DiscoveryReport{Tests: tests}
	sources, groups := report.BySource()

	root := tview.NewTreeNode("sources").
		SetColor(tcell.ColorWhite).
		SetSelectable(false)

	for _, source := range sources {
		sourceNode := tview.NewTreeNode(filepath.Base(source)).
			SetReference(source).
			SetColor(tcell.ColorDarkCyan)
		for _, tc := range groups[source] {
			sourceNode.AddChild(tview.NewTreeNode(tc.Name).
				SetReference(tc).
				SetColor(tcell.ColorYellow))
		}
		root.AddChild(sourceNode)
	}
	return root
}

// formatTestStats formats the header line for a test case
func formatTestStats(tc domain.TestCase) string {
	return fmt.Sprintf("[cyan]source:[white] [yellow]%s[white]::[yellow]%s[white]",
		tview.Escape(filepath.Base(tc.Source)), tview.Escape(tc.Name))
}

// formatTestDetails formats a test case using tview color tags
func formatTestDetails(tc domain.TestCase) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[green]Test: %s[white]\n\n", tview.Escape(tc.Name))
	fmt.Fprintf(&b, "[cyan]Source: %s[white]\n", tview.Escape(tc.Source))
	if tc.HasLocation() {
		fmt.Fprintf(&b, "[yellow]Location: %s[white]\n", tview.Escape(formatLocation(tc)))
	}
	b.WriteString("\n")

	if len(tc.Tags) == 0 {
		b.WriteString("[gray]No tags[white]\n")
		return b.String()
	}
	b.WriteString("[yellow]Tags:[white]\n")
	for _, tag := range tc.Tags {
		fmt.Fprintf(&b, "  %s\n", tview.Escape("["+tag+"]"))
	}
	return b.String()
}
