package manager

import (
	"regexp"
	"strings"
)

// Category is a coarse grouping used for filtering in listings.
type Category string

const (
	CategoryDeveloper     Category = "developer"
	CategoryMedia         Category = "media"
	CategoryGaming        Category = "gaming"
	CategoryCommunication Category = "communication"
	CategoryBrowser       Category = "browser"
	CategoryProductivity  Category = "productivity"
	CategoryTools         Category = "tools"
	CategoryOther         Category = "other"
)

// Categories lists every category in classification order.
var Categories = []Category{
	CategoryDeveloper,
	CategoryMedia,
	CategoryGaming,
	CategoryCommunication,
	CategoryBrowser,
	CategoryProductivity,
	CategoryTools,
	CategoryOther,
}

// ParseCategory converts a user-supplied name into a Category.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Rules are checked in order; the first match wins.
var categoryRules = []struct {
	category Category
	pattern  *regexp.Regexp
}{
	{CategoryDeveloper, regexp.MustCompile(`visual studio|vscode|code|rider|datagrip|intellij|pycharm|webstorm|phpstorm|android studio|git|docker|kubernetes|python|node|java|dotnet|typescript|npm|yarn|postman|insomnia|terminal|powershell|vim|sublime|atom|brackets|notepad\+\+`)},
	{CategoryMedia, regexp.MustCompile(`spotify|vlc|media player|itunes|music|video|obs|audacity|handbrake|kodi|plex|netflix|youtube|discord|zoom|teams|skype|slack|telegram`)},
	{CategoryGaming, regexp.MustCompile(`steam|epic|origin|uplay|gog|nvidia geforce|amd|game|gaming|minecraft|roblox|ea app|battle\.net|riot`)},
	{CategoryCommunication, regexp.MustCompile(`whatsapp|telegram|signal|discord|slack|teams|zoom|skype|messenger`)},
	{CategoryBrowser, regexp.MustCompile(`chrome|firefox|edge|brave|opera|vivaldi|safari|browser|floorp|librewolf|waterfox|pale moon|seamonkey|basilisk|tor browser|chromium`)},
	{CategoryProductivity, regexp.MustCompile(`office|word|excel|powerpoint|outlook|onenote|notion|evernote|trello|asana|todoist|wps office|libreoffice|openoffice|adobe|photoshop|illustrator|premiere`)},
	{CategoryTools, regexp.MustCompile(`winrar|7zip|ccleaner|malwarebytes|antivirus|vpn|wireshark|putty|filezilla|qbittorrent|utorrent|logitech|mouse|keyboard|driver|utility|everythingtoolbar|treesize|warp|cursor`)},
}

// DetectCategory classifies a package by keywords in its name and id.
func DetectCategory(name, id string) Category {
	text := strings.ToLower(name + " " + id)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return CategoryOther
}
