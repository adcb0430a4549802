package mcpserver

// TemplateFieldsGuide describes the placeholders accepted by the first line,
// note line and last line templates of the render settings.
const TemplateFieldsGuide = `# Note List Template Fields

The first_line, note_line and last_line settings are plain text with
placeholders in double braces. Field names are case-insensitive.

## Fields

| Placeholder             | Renders                                                   |
|-------------------------|-----------------------------------------------------------|
| {{date}}                | updated time, humanized when recent (span.date)           |
| {{updatedTime}}         | same as {{date}}                                          |
| {{createdTime}}         | created time (span.date)                                  |
| {{todoDate}}            | completion time if done, otherwise due time (span.todo-date) |
| {{todoDueDate}}         | due time (span.todo-date)                                 |
| {{todoCompletedDate}}   | completion time (span.todo-date)                          |
| {{tags}}                | tags in natural order; empty for confidential notes       |
| {{url}}                 | source URL                                                |
| {{noteText}}            | body excerpt; only meaningful in note_line                |
| {{anyOtherField}}       | the raw note property, or a single space when missing     |

To-do date spans carry one extra class: todo-open, todo-near,
todo-overdue or todo-done.

## Date patterns

date_format and time_format use moment style tokens: YYYY YY MMMM MMM MM M
DD D dddd ddd HH H hh h mm m ss s A a. Text in [brackets] is literal.

## Example

` + "```" + `yaml
first_line: "{{tags}}"
note_line: "{{date}} {{noteText}}"
last_line: "{{todoDate}}"
date_format: "DD/MM/YYYY"
time_format: "HH:mm"
` + "```" + `
`
