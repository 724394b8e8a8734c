package apps

// Builtin shortcuts for apps people ask for by a generic name. An
// empty command means the alias has no equivalent on that platform
// and resolution moves on to the next strategy.
type alias struct {
	windows string
	linux   string
	darwin  string
}

var builtinAliases = map[string]alias{
	"notepad":       {windows: "notepad", linux: "gedit", darwin: "open -a TextEdit"},
	"calculator":    {windows: "calc", linux: "gnome-calculator", darwin: "open -a Calculator"},
	"chrome":        {windows: "start chrome", linux: "google-chrome", darwin: "open -a 'Google Chrome'"},
	"firefox":       {windows: "start firefox", linux: "firefox", darwin: "open -a Firefox"},
	"vscode":        {windows: "code", linux: "code", darwin: "code"},
	"explorer":      {windows: "explorer", linux: "nautilus", darwin: "open ."},
	"file explorer": {windows: "explorer", linux: "nautilus", darwin: "open ."},
	"spotify":       {windows: "start spotify", linux: "spotify", darwin: "open -a Spotify"},
}

func aliasCommand(name, goos string) (string, bool) {
	a, ok := builtinAliases[name]
	if !ok {
		return "", false
	}

	var cmd string
	switch goos {
	case "windows":
		cmd = a.windows
	case "darwin":
		cmd = a.darwin
	default:
		cmd = a.linux
	}

	if cmd == "" {
		return "", false
	}
	return cmd, true
}
