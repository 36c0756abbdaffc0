package task

import "github.com/Strob0t/SecTrack/internal/domain/phase"

// template is a title/description pair in the default catalog.
type template struct {
	title       string
	description string
}

// catalog is the fixed set of default security tasks, two per phase.
var catalog = map[phase.Phase][]template{
	phase.Planning: {
		{"Threat Modeling", "Identify potential threats and attack vectors for the system"},
		{"Security Requirements Gathering", "Document security requirements and compliance needs"},
	},
	phase.Design: {
		{"Security Architecture Review", "Review system architecture for security weaknesses"},
		{"Data Flow Analysis", "Map and analyze data flows for sensitive information"},
	},
	phase.Implementation: {
		{"Secure Coding Review", "Review code against secure coding standards"},
		{"Dependency Scanning", "Scan third-party dependencies for known vulnerabilities"},
	},
	phase.Testing: {
		{"Security Testing", "Execute security test cases against the application"},
		{"Penetration Testing", "Perform penetration testing on the deployed candidate"},
	},
	phase.Deployment: {
		{"Security Configuration Review", "Verify production configuration against hardening baselines"},
		{"Access Control Setup", "Configure roles, permissions, and access policies"},
	},
}

// DefaultTasks builds the default task set for a new project: two tasks for
// each of the five phases, in catalog order. Every call produces fresh Task
// values with new ids, so projects never share task state.
func DefaultTasks(projectID string) map[phase.Phase][]Task {
	tasks := make(map[phase.Phase][]Task, phase.Count)
	for _, ph := range phase.All() {
		templates := catalog[ph]
		list := make([]Task, 0, len(templates))
		for _, tpl := range templates {
			list = append(list, New(projectID, ph, tpl.title, tpl.description))
		}
		tasks[ph] = list
	}
	return tasks
}
