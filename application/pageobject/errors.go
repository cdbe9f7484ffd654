package pageobject

import (
	"errors"
	"fmt"
	"time"
)

// Configuration mistakes of page objects
var (
	ErrAmbiguousLocator      = errors.New("only one of relative and absolute locators can be set")
	ErrMissingLocator        = errors.New("one of relative and absolute locators must be set")
	ErrMissingBaseLocator    = errors.New("base locator is not set")
	ErrRelativeLocatorOnPage = errors.New("page elements can't use relative locators")
	ErrElementRedeclared     = errors.New("element is already declared with another locator")
	ErrAmbiguousItemLocator  = errors.New("only one of item locators can be set")
	ErrMissingItemLocator    = errors.New("one of item locators must be set")
	ErrUnresolvedItemType    = errors.New("item type of list is not resolved")
)

// Wait failures, all of them match ErrTimeout
var (
	ErrTimeout                = errors.New("wait timed out")
	ErrNotVisible             = errors.New("element is not visible")
	ErrNotInvisible           = errors.New("element is still visible")
	ErrNotClickable           = errors.New("element is not clickable")
	ErrTextNotPresent         = errors.New("text is not in element")
	ErrTextUnchanged          = errors.New("text in element did not change")
	ErrAttributeStillContains = errors.New("attribute still contains text")
	ErrStillInDOM             = errors.New("element still exists in DOM")
	ErrURLNotContains         = errors.New("url does not contain text")
	ErrURLStillContains       = errors.New("url still contains text")
	ErrURLNotChanged          = errors.New("url did not change")
	ErrPageNotLoaded          = errors.New("page did not load")
)

// WaitKind tells which condition a wait was waiting for
type WaitKind string

const (
	WaitVisible        WaitKind = "visible"
	WaitInvisible      WaitKind = "invisible"
	WaitClickable      WaitKind = "clickable"
	WaitTextPresent    WaitKind = "text present"
	WaitTextChanged    WaitKind = "text changed"
	WaitAttributeLacks WaitKind = "attribute lacks text"
	WaitNotInDOM       WaitKind = "not in DOM"
	WaitURLContains    WaitKind = "url contains"
	WaitURLNotContains WaitKind = "url not contains"
	WaitURLChanged     WaitKind = "url changed"
	WaitPageLoaded     WaitKind = "page loaded"
)

var kindErrors = map[WaitKind]error{
	WaitVisible:        ErrNotVisible,
	WaitInvisible:      ErrNotInvisible,
	WaitClickable:      ErrNotClickable,
	WaitTextPresent:    ErrTextNotPresent,
	WaitTextChanged:    ErrTextUnchanged,
	WaitAttributeLacks: ErrAttributeStillContains,
	WaitNotInDOM:       ErrStillInDOM,
	WaitURLContains:    ErrURLNotContains,
	WaitURLNotContains: ErrURLStillContains,
	WaitURLChanged:     ErrURLNotChanged,
	WaitPageLoaded:     ErrPageNotLoaded,
}

// TimeoutError is returned when a wait condition did not hold in time
type TimeoutError struct {
	Kind    WaitKind
	Target  string
	Timeout time.Duration
	Detail  string
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("%s: %s after %s", kindErrors[e.Kind], e.Target, e.Timeout)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *TimeoutError) Unwrap() []error {
	return []error{ErrTimeout, kindErrors[e.Kind]}
}
