package main

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringName step = iota
	stepEnteringEmail
	stepEnteringAddress
	stepEnteringPhone
	stepEnteringPassword
	stepSubmitting
	stepComplete
	stepLookingUp
)

type field struct {
	key    string
	prompt string
	secret bool
}

// One entry per input step, in order.
var fields = []field{
	{key: "name", prompt: "Enter your name:"},
	{key: "email", prompt: "Enter your email:"},
	{key: "address", prompt: "Enter your address:"},
	{key: "phonenumber", prompt: "Enter your phone number:"},
	{key: "password", prompt: "Choose a password:", secret: true},
}

type model struct {
	step         step
	serverURL    string
	client       *http.Client
	values       url.Values
	currentInput string
	userID       string
	record       []string
	message      string
	quitting     bool
}

type submitSuccessMsg struct{ userID string }

// lookupResultMsg carries the looked-up row as id, name, email, address and
// phone number. record is nil when the server found no user.
type lookupResultMsg struct{ record []string }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(serverURL string) model {
	return model{
		step:      stepEnteringName,
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
		values:    url.Values{},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

var createdIDPattern = regexp.MustCompile(`<td>(\d+)</td>`)

func submitRegistration(client *http.Client, serverURL string, values url.Values) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.PostForm(serverURL+"/submit", values)
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errMsg{fmt.Errorf("failed to read response: %w", err)}
		}

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("server returned %d", resp.StatusCode)}
		}

		match := createdIDPattern.FindSubmatch(body)
		if match == nil {
			return errMsg{fmt.Errorf("registration response did not include an id")}
		}
		return submitSuccessMsg{userID: string(match[1])}
	}
}

var recordPattern = regexp.MustCompile(`<tr><td>(\d+)</td><td>([^<]*)</td><td>([^<]*)</td><td>([^<]*)</td><td>([^<]*)</td>`)

func lookupUser(client *http.Client, serverURL, userID string) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.PostForm(serverURL+"/get-data", url.Values{"input_id": {userID}})
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable: %w", err)}
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errMsg{fmt.Errorf("failed to read response: %w", err)}
		}

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("server returned %d", resp.StatusCode)}
		}

		match := recordPattern.FindSubmatch(body)
		if match == nil {
			return lookupResultMsg{}
		}
		record := make([]string, 0, len(match)-1)
		for _, cell := range match[1:] {
			record = append(record, html.UnescapeString(string(cell)))
		}
		return lookupResultMsg{record: record}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit

		case tea.KeyBackspace:
			if len(m.currentInput) > 0 {
				r := []rune(m.currentInput)
				m.currentInput = string(r[:len(r)-1])
			}

		case tea.KeyRunes, tea.KeySpace:
			if m.step < stepSubmitting {
				m.currentInput += string(msg.Runes)
			}
			if m.step == stepComplete && string(msg.Runes) == "l" {
				m.step = stepLookingUp
				m.message = "Looking up id " + m.userID + "..."
				return m, lookupUser(m.client, m.serverURL, m.userID)
			}

		case tea.KeyEnter:
			switch {
			case m.step < stepSubmitting:
				f := fields[m.step]
				if m.currentInput == "" || (!f.secret && strings.TrimSpace(m.currentInput) == "") {
					m.message = errorStyle.Render("✗ " + fields[m.step].key + " is required")
					return m, nil
				}
				m.values.Set(fields[m.step].key, m.currentInput)
				m.currentInput = ""
				m.message = ""
				m.step++
				if m.step == stepSubmitting {
					m.message = "Submitting registration..."
					return m, submitRegistration(m.client, m.serverURL, m.values)
				}

			case m.step == stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case submitSuccessMsg:
		m.userID = msg.userID
		m.step = stepComplete
		m.message = successStyle.Render("✓ Registered with id " + msg.userID)
		m.values.Del("password")

	case lookupResultMsg:
		m.step = stepComplete
		m.record = msg.record
		if msg.record == nil {
			m.message = errorStyle.Render("✗ No user found with id " + m.userID)
		} else {
			m.message = successStyle.Render("✓ Found id " + m.userID)
		}

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		if m.step == stepLookingUp {
			m.step = stepComplete
			return m, nil
		}
		m.step = stepEnteringPassword
		m.values.Del("password")
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("User Registration\n\n"))

	switch {
	case m.step < stepSubmitting:
		f := fields[m.step]
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(promptStyle.Render(f.prompt + "\n"))
		shown := m.currentInput
		if f.secret {
			shown = strings.Repeat("•", len([]rune(m.currentInput)))
		}
		s.WriteString(inputStyle.Render("> " + shown))
		s.WriteString("\n\nPress Enter (Esc to quit)\n")

	case m.step == stepSubmitting, m.step == stepLookingUp:
		s.WriteString(m.message + "\n")

	case m.step == stepComplete:
		s.WriteString(m.message + "\n")
		if len(m.record) == 5 {
			labels := []string{"ID", "Name", "Email", "Address", "Phone"}
			s.WriteString("\n")
			for i, label := range labels {
				s.WriteString(fmt.Sprintf("%-8s %s\n", label+":", m.record[i]))
			}
		}
		s.WriteString("\nPress l to look up the record, Enter to exit\n")
	}

	return s.String()
}
