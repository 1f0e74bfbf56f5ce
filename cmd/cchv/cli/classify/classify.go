package classify

import "fmt"

// rule pairs a detector with its normalizer. Rules are evaluated in table
// order; the first match wins. Keeping the table explicit makes the
// priority between overlapping signatures inspectable and lets each pair
// be tested on its own.
type objectRule struct {
	category  Category
	matches   func(map[string]any) bool
	normalize func(map[string]any) Value
}

type textRule struct {
	category  Category
	matches   func(string) bool
	normalize func(string) Value
}

// objectRules orders the shape-based categories. The tail of the object
// chain (content re-checks, generic fields, fallbacks) lives in
// classifyObject because those steps key on the same field in sequence.
var objectRules = []objectRule{
	{CategoryMCPToolCall, isMCPToolResult, normalizeMCP},
	{CategoryCodebaseContext, isCodebaseContext, normalizeCodebaseContext},
	{CategoryTerminalStream, isTerminalStream, normalizeTerminalStream},
	{CategoryGitWorkflow, isGitWorkflow, normalizeGitWorkflow},
	{CategoryWebSearch, isWebSearch, normalizeWebSearch},
	{CategoryTodoUpdate, isTodoUpdate, normalizeTodoUpdate},
	{CategoryFileList, isFileList, normalizeFileList},
	{CategoryFileObject, isFileObject, normalizeFileObject},
	{CategoryFileEdit, isFileEdit, normalizeFileEdit},
	{CategoryStructuredPatch, isStructuredPatch, normalizeStructuredPatch},
}

// textRules orders the string sub-protocol categories. Plain text is the
// fallback and has no rule.
var textRules = []textRule{
	{CategoryError, isErrorText, normalizeErrorText},
	{CategorySessionHistory, isSessionHistory, normalizeSessionHistory},
	{CategoryNumberedFile, isNumberedContent, normalizeNumberedContent},
	{CategoryFileSearch, isFileSearchOutput, normalizeFileSearch},
}

// Classify assigns the payload to exactly one category and returns its
// normalized value. The payload is expected in the forms encoding/json
// produces for an untyped value: string, map[string]any, []any, float64,
// bool, or nil. Classification is pure; the payload is never modified.
func Classify(payload any) Result {
	switch v := payload.(type) {
	case string:
		return classifyText(v)
	case map[string]any:
		return classifyObject(v)
	case []any:
		// Bare block arrays behave like a content field holding the
		// same elements.
		if len(v) > 0 {
			return Result{Category: CategoryContentArray, Value: classifyItems(v)}
		}
		return Result{Category: CategoryGeneric, Value: Generic{}}
	case nil:
		return Result{Category: CategoryGeneric, Value: Generic{}}
	default:
		return Result{Category: CategoryGeneric, Value: Generic{Text: fmt.Sprint(v)}}
	}
}

func classifyText(text string) Result {
	for _, r := range textRules {
		if r.matches(text) {
			return Result{Category: r.category, Value: r.normalize(text)}
		}
	}
	return Result{Category: CategoryPlainString, Value: PlainText{Text: text}}
}

func classifyObject(obj map[string]any) Result {
	for _, r := range objectRules {
		if r.matches(obj) {
			return Result{Category: r.category, Value: r.normalize(obj)}
		}
	}

	// The content field gets three chances, in this order: an embedded
	// transcript, a block array, then plain text.
	if s, ok := stringField(obj, "content"); ok && isSessionHistory(s) {
		return Result{Category: CategorySessionHistory, Value: normalizeSessionHistory(s)}
	}
	if arr, ok := arrayField(obj, "content"); ok && len(arr) > 0 {
		return Result{Category: CategoryContentArray, Value: classifyItems(arr)}
	}
	if s, ok := stringField(obj, "content"); ok {
		return Result{Category: CategoryPlainString, Value: PlainText{Text: s}}
	}

	if hasGenericFields(obj) {
		return Result{Category: CategoryGeneric, Value: normalizeGeneric(obj)}
	}
	if len(obj) > 0 {
		return Result{Category: CategoryEmptyFallback, Value: Fallback{Raw: obj}}
	}
	return Result{Category: CategoryGeneric, Value: Generic{}}
}

// classifyItems classifies every element of a content array independently
// through the same chain. Elements that match nothing land in a fallback
// category and keep their raw value, so nothing is dropped.
func classifyItems(arr []any) ContentArray {
	items := make([]Result, 0, len(arr))
	for _, e := range arr {
		items = append(items, Classify(e))
	}
	return ContentArray{Items: items}
}
