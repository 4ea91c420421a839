package roadmap

import (
	"fmt"
	"strings"
)

// validateModules performs all structural checks on a module list and
// returns one error describing every problem found.
func validateModules(modules []Module, known SetLookup) error {
	var errs []string

	if len(modules) == 0 {
		return fmt.Errorf("roadmap validation failed:\n  roadmap has no modules")
	}

	idSet := make(map[string]bool, len(modules))
	for _, m := range modules {
		if m.ID == "" {
			errs = append(errs, fmt.Sprintf("module %q has no id", m.Title))
			continue
		}
		if idSet[m.ID] {
			errs = append(errs, fmt.Sprintf("duplicate module ID: %q", m.ID))
		}
		idSet[m.ID] = true
	}

	for _, m := range modules {
		if m.SetID == "" {
			errs = append(errs, fmt.Sprintf("module %q has no set_id", m.ID))
		} else if known != nil && !known(m.SetID) {
			errs = append(errs, fmt.Sprintf("module %q references unknown question set %q", m.ID, m.SetID))
		}
		for _, p := range m.Prerequisites {
			if p == m.ID {
				errs = append(errs, fmt.Sprintf("module %q lists itself as a prerequisite", m.ID))
			} else if !idSet[p] {
				errs = append(errs, fmt.Sprintf("module %q references nonexistent prerequisite %q", m.ID, p))
			}
		}
	}

	// Cycle check using Kahn's algorithm over known edges only, so a
	// dangling prerequisite is not also reported as a cycle.
	inDegree := make(map[string]int, len(modules))
	adj := make(map[string][]string)
	for _, m := range modules {
		if _, ok := inDegree[m.ID]; !ok {
			inDegree[m.ID] = 0
		}
		for _, p := range m.Prerequisites {
			if idSet[p] {
				inDegree[m.ID]++
				adj[p] = append(adj[p], m.ID)
			}
		}
	}
	var queue []string
	for _, m := range modules {
		if inDegree[m.ID] == 0 {
			queue = append(queue, m.ID)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, d := range adj[id] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	if visited < len(inDegree) {
		var cycle []string
		for _, m := range modules {
			if inDegree[m.ID] > 0 {
				cycle = append(cycle, m.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving modules: %s", strings.Join(cycle, ", ")))
	}

	hasRoot := false
	for _, m := range modules {
		if len(m.Prerequisites) == 0 {
			hasRoot = true
			break
		}
	}
	if !hasRoot {
		errs = append(errs, "no root modules found (at least one module must have no prerequisites)")
	}

	if len(errs) > 0 {
		return fmt.Errorf("roadmap validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
