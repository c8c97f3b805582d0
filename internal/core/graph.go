package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/taskctl/pkg/models"
)

// ReadyTasks filters tasks to those that are pending with every declared
// dependency resolved to a done task within the same set. Input order is
// preserved, so callers passing task-number-ordered slices get a
// deterministic lowest-number-first result.
func ReadyTasks(tasks []*models.Task) []*models.Task {
	index := taskIndex(tasks)

	var ready []*models.Task
	for _, task := range tasks {
		if task.Status != models.StatusPending {
			continue
		}
		if depsResolved(task, index) {
			ready = append(ready, task)
		}
	}
	return ready
}

func depsResolved(task *models.Task, index map[string]*models.Task) bool {
	for _, depID := range task.DependsOn {
		dep, ok := index[depID]
		if !ok || dep.Status != models.StatusDone {
			return false
		}
	}
	return true
}

// taskIndex builds an ID lookup over a task slice.
func taskIndex(tasks []*models.Task) map[string]*models.Task {
	index := make(map[string]*models.Task, len(tasks))
	for _, task := range tasks {
		index[task.ID] = task
	}
	return index
}

// validateDependencies checks a proposed depends_on set for task id before
// it is written: every dependency must name an existing task of the same
// epic, and the resulting graph must stay acyclic. Violations are rejected
// here so a deadlocked never-ready task can not be persisted.
func validateDependencies(id, epicID string, dependsOn []string, index map[string]*models.Task) error {
	seen := make(map[string]struct{}, len(dependsOn))
	for _, depID := range dependsOn {
		if depID == id {
			return fmt.Errorf("%s cannot depend on itself: %w", id, models.ErrCyclicDependency)
		}
		if _, dup := seen[depID]; dup {
			return fmt.Errorf("duplicate dependency %s on %s: %w", depID, id, models.ErrInvalidReference)
		}
		seen[depID] = struct{}{}

		depEpic, _, err := ParseTaskID(depID)
		if err != nil {
			return fmt.Errorf("dependency %s of %s: %w", depID, id, models.ErrInvalidReference)
		}
		if depEpic != epicID {
			return fmt.Errorf("dependency %s of %s crosses epic boundaries: %w", depID, id, models.ErrInvalidReference)
		}
		if _, ok := index[depID]; !ok {
			return fmt.Errorf("dependency %s of %s does not exist: %w", depID, id, models.ErrInvalidReference)
		}
	}

	if cycle := findCycle(id, dependsOn, index); cycle != nil {
		return fmt.Errorf("cycle: %s: %w", strings.Join(cycle, " -> "), models.ErrCyclicDependency)
	}
	return nil
}

// findCycle walks depth-first from each proposed dependency back toward the
// dependent task. A path that reaches id again is returned as a witness
// (id ... id); nil means the edge set is acyclic.
func findCycle(id string, dependsOn []string, index map[string]*models.Task) []string {
	visited := make(map[string]bool)

	var path []string
	var dfs func(cur string) bool
	dfs = func(cur string) bool {
		if cur == id {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true

		task, ok := index[cur]
		if !ok {
			return false
		}
		for _, next := range task.DependsOn {
			path = append(path, next)
			if dfs(next) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}

	for _, depID := range dependsOn {
		path = append(path[:0], id, depID)
		if dfs(depID) {
			return path
		}
	}
	return nil
}
