package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeySelectPrev    = "up"
	KeySelectPrevK   = "k"
	KeySelectNext    = "down"
	KeySelectNextJ   = "j"
	KeySelectFirst   = "home"
	KeySelectLast    = "end"
	KeySwitchTab     = "tab"
	KeyPagePrev      = "["
	KeyPageNext      = "]"
	KeyToggleMonitor = "m"
	KeySimulate      = "s"
	KeyDelete        = "d"
	KeyToggleHelp    = "?"
	KeyCloseHelp     = "esc"
)

// HandleKeyMsg processes keyboard input and returns updated model state and
// command. Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCloseHelp {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.Close()
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refetchCmd()

	case KeySelectPrev, KeySelectPrevK:
		return true, m.moveSelection(m.selected - 1)

	case KeySelectNext, KeySelectNextJ:
		return true, m.moveSelection(m.selected + 1)

	case KeySelectFirst:
		return true, m.moveSelection(0)

	case KeySelectLast:
		return true, m.moveSelection(len(m.instances) - 1)

	case KeySwitchTab:
		m.activeTab = m.activeTab.Next()
		return true, nil

	case KeyPagePrev:
		return true, m.pagePrevCmd()

	case KeyPageNext:
		return true, m.pageNextCmd()

	case KeyToggleMonitor:
		return true, m.toggleMonitorCmd()

	case KeySimulate:
		return true, m.simulateCmd()

	case KeyDelete:
		sel := m.SelectedInstance()
		if sel == nil {
			return true, nil
		}
		if sel.IsMonitoring {
			return true, m.setNotice("Stop monitoring before deleting", true)
		}
		return true, m.deleteCmd()
	}

	return false, nil
}

// moveSelection moves the cursor within list bounds and rebinds the detail
// subscriptions to the newly selected instance.
func (m *Model) moveSelection(idx int) tea.Cmd {
	if len(m.instances) == 0 {
		return nil
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.instances) {
		idx = len(m.instances) - 1
	}
	if idx == m.selected {
		return nil
	}
	m.selected = idx
	return m.resubscribeDetail()
}
