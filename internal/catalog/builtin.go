package catalog

// BuiltinApps returns the stock desktop applications.
func BuiltinApps() []App {
	return []App{
		{ID: "wallet-app", Name: "Cards", Icon: "card-wallet", Group: GroupFinder, Description: "Quick access to cards and payment shortcuts."},
		{ID: "home-app", Name: "Home", Icon: "card-home", Group: GroupFinder, Description: "Open connected-home controls and scenes."},
		{ID: "locate-app", Name: "Locate", Icon: "card-findmy", Group: GroupFinder, Description: "Track devices and secure workspace locations."},
		{ID: "translate-app", Name: "Translate", Icon: "card-translate", Group: GroupFinder, Description: "Open translation tools for quick text checks."},
		{ID: "vault-app", Name: "Lock", Icon: "card-lock", Group: GroupFinder, Description: "Open password management actions.", OpensLogin: true},

		{ID: "mdp-shortcut", Name: "MDP", Icon: "passwords", Group: GroupDesktop, Description: "Open password management actions.", OpensLogin: true},

		{ID: "messages-app", Name: "Messages", Icon: "messages", Group: GroupDock, Description: "Open messages for your workspace updates."},
		{ID: "video-app", Name: "FaceTime", Icon: "facetime", Group: GroupDock, Description: "Start a video call with your collaborators."},
		{ID: "settings-app", Name: "Settings", Icon: "settings", Group: GroupDock, Description: "Open settings for your desktop session."},
		{ID: "calculator-app", Name: "Calculator", Icon: "calculator", Group: GroupDock, Description: "Open calculator for quick checks."},
		{ID: "appstore-app", Name: "App Store", Icon: "appstore", Group: GroupDock, Description: "Browse available applications."},
		{ID: "safari-app", Name: "Safari", Icon: "safari", Group: GroupDock, Description: "Open browser shortcuts for your workflow."},
		{ID: "mail-app", Name: "Mail", Icon: "mail", Group: GroupDock, Description: "Check incoming emails and notices."},
	}
}

// Builtin returns the stock catalog.
func Builtin() *Catalog {
	c, err := New(BuiltinApps())
	if err != nil {
		panic("catalog: invalid builtin apps: " + err.Error())
	}
	return c
}

// DefaultDesktopShortcut is the icon placed on a fresh desktop.
const DefaultDesktopShortcut = "mdp-shortcut"
