// Package mocks holds testify mocks of session boundary and storage.
package mocks

import (
	"context"

	"page_objects/domain/entities"
	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/stretchr/testify/mock"
)

// -- Session Mock --

// MockSession mocks interfaces.Session.
type MockSession struct {
	mock.Mock
}

func (m *MockSession) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockSession) CurrentURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSession) FindElements(ctx context.Context, strategy locators.Strategy, query string) ([]interfaces.NativeElement, error) {
	args := m.Called(ctx, strategy, query)
	found, _ := args.Get(0).([]interfaces.NativeElement)
	return found, args.Error(1)
}

func (m *MockSession) ExecuteScript(ctx context.Context, script string, scriptArgs ...any) (any, error) {
	args := m.Called(ctx, script, scriptArgs)
	return args.Get(0), args.Error(1)
}

func (m *MockSession) Hover(ctx context.Context, element interfaces.NativeElement) error {
	args := m.Called(ctx, element)
	return args.Error(0)
}

func (m *MockSession) DragAndDrop(ctx context.Context, source, target interfaces.NativeElement) error {
	args := m.Called(ctx, source, target)
	return args.Error(0)
}

func (m *MockSession) ClickAt(ctx context.Context, x, y int) error {
	args := m.Called(ctx, x, y)
	return args.Error(0)
}

func (m *MockSession) SwitchToFrame(ctx context.Context, frame interfaces.NativeElement) error {
	args := m.Called(ctx, frame)
	return args.Error(0)
}

func (m *MockSession) SwitchToDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// -- Element Mock --

// MockElement mocks interfaces.NativeElement.
type MockElement struct {
	mock.Mock
}

func (m *MockElement) IsDisplayed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockElement) IsEnabled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockElement) IsSelected(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockElement) Text(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockElement) Attribute(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockElement) CSSProperty(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *MockElement) Click(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockElement) SendKeys(ctx context.Context, keys string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockElement) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockElement) SelectByVisibleText(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// -- Report Store Mock --

// MockReportStore mocks interfaces.ReportStore.
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) SaveResults(results []entities.ScenarioResult) error {
	args := m.Called(results)
	return args.Error(0)
}

func (m *MockReportStore) LoadResults() ([]entities.ScenarioResult, error) {
	args := m.Called()
	results, _ := args.Get(0).([]entities.ScenarioResult)
	return results, args.Error(1)
}

var (
	_ interfaces.Session       = (*MockSession)(nil)
	_ interfaces.NativeElement = (*MockElement)(nil)
	_ interfaces.ReportStore   = (*MockReportStore)(nil)
)
