package pypi

import (
	"context"
	"fmt"
	"strings"

	"page_objects/application/pageobject"
	"page_objects/application/scenarios"
	"page_objects/domain/interfaces"
)

const (
	DefaultQuery       = "saritasa"
	DefaultPackage     = "pomcorn"
	DefaultMinPackages = 4
)

// Scenarios - demo scenarios with default search parameters
func Scenarios() []scenarios.Scenario {
	return []scenarios.Scenario{
		SearchScenario(DefaultQuery, DefaultPackage, DefaultMinPackages),
		LogoScenario(),
	}
}

// SearchScenario - searches by query, expects at least minPackages results,
// opens package with given name and checks its header
func SearchScenario(query, name string, minPackages int) scenarios.Scenario {
	return scenarios.Scenario{
		Name:        "search",
		Description: fmt.Sprintf("search `%s` and open `%s`", query, name),
		Run: func(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) error {
			index, err := OpenIndexPage(ctx, session, config)
			if err != nil {
				return err
			}
			search, err := index.Search(ctx)
			if err != nil {
				return err
			}
			searchPage, err := search.Find(ctx, query)
			if err != nil {
				return err
			}
			results, err := searchPage.Results(ctx)
			if err != nil {
				return err
			}

			count, err := results.Count(ctx)
			if err != nil {
				return err
			}
			if count < minPackages {
				return fmt.Errorf("expected at least %d packages for `%s`, found %d", minPackages, query, count)
			}

			pkg, err := results.GetItemByText(ctx, name, true)
			if err != nil {
				return err
			}
			found, err := pkg.Name(ctx)
			if err != nil {
				return err
			}
			if found != name {
				return fmt.Errorf("expected package `%s`, got `%s`", name, found)
			}

			details, err := pkg.Open(ctx)
			if err != nil {
				return err
			}
			header, err := details.Header(ctx)
			if err != nil {
				return err
			}
			if !strings.Contains(header, name) {
				return fmt.Errorf("header `%s` doesn't mention `%s`", header, name)
			}
			return nil
		},
	}
}

// LogoScenario - clicks logo on help page and expects to land on index page
func LogoScenario() scenarios.Scenario {
	return scenarios.Scenario{
		Name:        "logo",
		Description: "logo on help page leads to index page",
		Run: func(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) error {
			help, err := OpenHelpPage(ctx, session, config)
			if err != nil {
				return err
			}
			oldURL, err := help.CurrentURL(ctx)
			if err != nil {
				return err
			}

			index, err := help.ClickOnLogo(ctx)
			if err != nil {
				return err
			}
			if err := index.WaitUntilURLChanges(ctx, oldURL); err != nil {
				return err
			}

			current, err := index.CurrentURL(ctx)
			if err != nil {
				return err
			}
			if strings.TrimSuffix(current, "/") != strings.TrimSuffix(index.AppRoot(), "/") {
				return fmt.Errorf("expected index page at `%s`, got `%s`", index.AppRoot(), current)
			}
			return nil
		},
	}
}
