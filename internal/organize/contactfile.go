package organize

import (
	"fmt"
	"strings"

	"contactsheet/internal/contacts"
)

// ContactText renders a contact record as the labelled text block written
// next to the photos. Fields that repeat get numbered labels so 电话1 and
// 电话2 stay distinguishable; a lone value keeps the bare label.
func ContactText(record contacts.Record) string {
	var b strings.Builder
	writeField(&b, "姓名", record.Name)
	writeField(&b, "单位", record.Affiliation)
	writeField(&b, "职位", record.Title)
	writeRepeated(&b, "电话", record.Phones)
	writeRepeated(&b, "邮箱", record.Emails)
	writeRepeated(&b, "地址", record.Addresses)
	writeField(&b, "备注", record.Note)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s：%s\n", label, value)
}

func writeRepeated(b *strings.Builder, label string, values []string) {
	if len(values) == 1 {
		writeField(b, label, values[0])
		return
	}
	for i, value := range values {
		writeField(b, fmt.Sprintf("%s%d", label, i+1), value)
	}
}
