package items

var typeIcons = map[string]string{
	"Bug":                  "icon_bug.svg",
	"Task":                 "icon_task.svg",
	"Task Group":           "icon_task_group.svg",
	"Product Backlog Item": "icon_backlog_item.svg",
	"Feature":              "icon_feature.svg",
	"Initiative":           "icon_initiative.svg",
	"User Story":           "icon_user_story.svg",
}

// IconFor returns the icon resource for a work item type, or "" when the
// type has none.
func IconFor(workItemType string) string {
	return typeIcons[workItemType]
}
