package interfaces

// Scripts follow Selenium calling convention: function body reading arguments[i]
const (
	ScriptSetAttribute   = `arguments[0].setAttribute(arguments[1], arguments[2]);`
	ScriptScrollIntoView = `arguments[0].scrollIntoView({behavior: 'instant', block: 'center', inline: 'center'});`
	ScriptScrollToTop    = `window.scrollBy(0, -document.body.scrollHeight);`
	ScriptScrollToBottom = `window.scrollBy(0, document.body.scrollHeight);`
)
