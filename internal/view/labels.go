package view

import "tasklist/internal/task"

// Labels holds every user-visible string of the task list for one locale.
type Labels struct {
	Title     string
	Priority  map[task.Priority]string
	Filter    map[task.Filter]string
	Total     string
	Active    string
	Completed string
	Toggle    string
	Edit      string
	Delete    string
	Save      string
	Cancel    string
	NoTasks   string
}

var locales = map[string]Labels{
	"en": {
		Title: "Tasks",
		Priority: map[task.Priority]string{
			task.PriorityHigh:   "High",
			task.PriorityMedium: "Medium",
			task.PriorityLow:    "Low",
		},
		Filter: map[task.Filter]string{
			task.FilterAll:       "All",
			task.FilterActive:    "Active",
			task.FilterCompleted: "Completed",
		},
		Total:     "All",
		Active:    "Active",
		Completed: "Completed",
		Toggle:    "Done",
		Edit:      "Edit",
		Delete:    "Delete",
		Save:      "Save",
		Cancel:    "Cancel",
		NoTasks:   "No tasks",
	},
	"ja": {
		Title: "タスク",
		Priority: map[task.Priority]string{
			task.PriorityHigh:   "高",
			task.PriorityMedium: "中",
			task.PriorityLow:    "低",
		},
		Filter: map[task.Filter]string{
			task.FilterAll:       "全て",
			task.FilterActive:    "未完了",
			task.FilterCompleted: "完了",
		},
		Total:     "全て",
		Active:    "未完了",
		Completed: "完了",
		Toggle:    "完了",
		Edit:      "編集",
		Delete:    "削除",
		Save:      "保存",
		Cancel:    "キャンセル",
		NoTasks:   "タスクがありません",
	},
}

// LabelsFor returns the labels for locale, falling back to English.
func LabelsFor(locale string) Labels {
	if l, ok := locales[locale]; ok {
		return l
	}
	return locales["en"]
}

func HasLocale(locale string) bool {
	_, ok := locales[locale]
	return ok
}
