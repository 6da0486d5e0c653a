package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"duesync/internal/models"
)

var (
	_ list.Item = courseItem{}
	_ list.Item = assignmentItem{}
	_ list.Item = targetListItem{}
)

// courseItem wraps [models.Course] to implement [list.Item].
type courseItem struct {
	course models.Course
}

func (i courseItem) FilterValue() string { return i.course.Name }
func (i courseItem) Title() string       { return i.course.Name }
func (i courseItem) Description() string { return fmt.Sprintf("id %s", i.course.ID) }

// assignmentItem wraps [models.Assignment] to implement [list.Item].
type assignmentItem struct {
	assignment models.Assignment
}

func (i assignmentItem) FilterValue() string { return i.assignment.Name }
func (i assignmentItem) Title() string       { return i.assignment.Name }
func (i assignmentItem) Description() string {
	if !i.assignment.DueValid {
		return "no due date"
	}
	due := time.UnixMilli(i.assignment.DueMillis).Local()
	return fmt.Sprintf("due %s", due.Format("Mon Jan 2 15:04"))
}

// targetListItem wraps a space/list pair to implement [list.Item].
type targetListItem struct {
	space models.Space
	list  models.TargetList
}

func (i targetListItem) FilterValue() string { return i.list.Name }
func (i targetListItem) Title() string       { return i.list.Name }
func (i targetListItem) Description() string { return i.space.Name }
