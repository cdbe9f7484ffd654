package pageobject

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

func firstMatch(ctx context.Context, session interfaces.Session, loc locators.Locator) (interfaces.NativeElement, error) {
	found, err := session.FindElements(ctx, loc.Strategy(), loc.Query())
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, interfaces.ErrNoSuchElement
	}
	return found[0], nil
}

// LocatorVisible - first element matching locator is displayed
func LocatorVisible(session interfaces.Session, loc locators.Locator) Condition {
	return func(ctx context.Context) (bool, error) {
		el, err := firstMatch(ctx, session, loc)
		if err != nil {
			return false, err
		}
		return el.IsDisplayed(ctx)
	}
}

// LocatorInvisible - element matching locator is hidden or absent
func LocatorInvisible(session interfaces.Session, loc locators.Locator) Condition {
	return func(ctx context.Context) (bool, error) {
		el, err := firstMatch(ctx, session, loc)
		if isTransient(err) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		displayed, err := el.IsDisplayed(ctx)
		if errors.Is(err, interfaces.ErrStaleElement) {
			return true, nil
		}
		return !displayed, err
	}
}

// LocatorClickable - element matching locator is displayed and enabled
func LocatorClickable(session interfaces.Session, loc locators.Locator) Condition {
	return func(ctx context.Context) (bool, error) {
		el, err := firstMatch(ctx, session, loc)
		if err != nil {
			return false, err
		}
		displayed, err := el.IsDisplayed(ctx)
		if err != nil || !displayed {
			return false, err
		}
		return el.IsEnabled(ctx)
	}
}

// TextInElement - text of element matching locator contains text
func TextInElement(session interfaces.Session, loc locators.Locator, text string) Condition {
	return func(ctx context.Context) (bool, error) {
		el, err := firstMatch(ctx, session, loc)
		if err != nil {
			return false, err
		}
		current, err := el.Text(ctx)
		if err != nil {
			return false, err
		}
		return strings.Contains(current, text), nil
	}
}

// TextChanged - text of element matching locator differs from old text
func TextChanged(session interfaces.Session, loc locators.Locator, old string) Condition {
	return func(ctx context.Context) (bool, error) {
		el, err := firstMatch(ctx, session, loc)
		if err != nil {
			return false, err
		}
		current, err := el.Text(ctx)
		if err != nil {
			return false, err
		}
		return current != old, nil
	}
}

// AttributeLacksText - attribute of element matching locator doesn't contain text.
// Unset attribute or stale element contain nothing.
func AttributeLacksText(session interfaces.Session, loc locators.Locator, attribute, text string) Condition {
	return func(ctx context.Context) (bool, error) {
		el, err := firstMatch(ctx, session, loc)
		if err != nil {
			return false, err
		}
		value, err := el.Attribute(ctx, attribute)
		if errors.Is(err, interfaces.ErrStaleElement) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return !strings.Contains(value, text), nil
	}
}

// NotInDOM - nothing matches locator
func NotInDOM(session interfaces.Session, loc locators.Locator) Condition {
	return func(ctx context.Context) (bool, error) {
		found, err := session.FindElements(ctx, loc.Strategy(), loc.Query())
		if isTransient(err) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		return len(found) == 0, nil
	}
}

// URLContains - current url contains text
func URLContains(session interfaces.Session, text string) Condition {
	return func(ctx context.Context) (bool, error) {
		current, err := session.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return strings.Contains(current, text), nil
	}
}

// URLNotMatches - current url doesn't match pattern
func URLNotMatches(session interfaces.Session, pattern *regexp.Regexp) Condition {
	return func(ctx context.Context) (bool, error) {
		current, err := session.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return !pattern.MatchString(current), nil
	}
}

// URLChanged - current url differs from old url
func URLChanged(session interfaces.Session, old string) Condition {
	return func(ctx context.Context) (bool, error) {
		current, err := session.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		return current != old, nil
	}
}
