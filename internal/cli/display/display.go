// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

import (
	"fmt"
	"strings"

	"github.com/platform-engineering-labs/panier"
)

func colorBanner(banner string) string {
	lines := strings.Split(banner, "\n")
	for i, line := range lines {
		// the version tag sits on the last line
		if strings.Contains(line, "version") {
			lines[i] = Gold(line)
			continue
		}
		lines[i] = LightBlue(line)
	}

	return strings.Join(lines, "\n")
}

var banner = colorBanner(Banner)

func PrintBanner() {
	fmt.Println(strings.Replace(banner, "version", panier.Version, 1))
}

func Success(msg string) {
	fmt.Print(Green(fmt.Sprintf("%s\n", msg)))
}

func Warning(msg string) {
	fmt.Print(Gold(fmt.Sprintf("Warning: %s\n", msg)))
}

func Error(msg string) {
	fmt.Print(Red(fmt.Sprintf("Error: %s\n", msg)))
}

func Links(docLinkName string, deepLinkName string) string {
	deepLink := DocRoot
	if deepLinkName != "" {
		deepLink += "/" + deepLinkName
	}

	return "\n" + Gold(fmt.Sprintf("%s: ", docLinkName)) + deepLink +
		"\n" + Gold("Bugs: ") + DocRoot + "/issues"
}
