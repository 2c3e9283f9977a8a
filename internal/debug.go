package internal

import (
	"fmt"
	"os"
	"os/user"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/rs/zerolog/log"
)

var sensitiveRegex = regexp.MustCompile(`(?i)(PASSWORD|API_KEY|ACCESS_KEY|SECRET|TOKEN)`)

func ShowVersion() {
	log.Info().Str("version", versioninfo.Short()).Msg("Image enhancer")
}

// EnvironmentVars logs the variables that influence the service, masking
// anything that looks like a credential.
func EnvironmentVars() {
	for _, kv := range relevantEnv(os.Environ()) {
		log.Debug().Str("name", kv[0]).Str("value", kv[1]).Msg("Environment")
	}
}

func relevantEnv(environ []string) [][2]string {
	vars := make([][2]string, 0, len(environ))
	for _, entry := range environ {
		key, value, _ := strings.Cut(entry, "=")
		if !strings.HasPrefix(key, "ENHANCER_") && !strings.HasPrefix(key, "GIN_") {
			continue
		}
		if sensitiveRegex.MatchString(key) {
			value = "********"
		}
		vars = append(vars, [2]string{key, value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i][0] < vars[j][0] })
	return vars
}

func UserInfo() {
	event := log.Debug().Int("pid", os.Getpid())
	currentUser, err := user.Current()
	if err != nil {
		log.Warn().Err(err).Msg("Error getting current user")
	} else {
		event = event.Str("uid", currentUser.Uid).Str("user", currentUser.Username).Str("gid", currentUser.Gid)
	}
	groups, err := os.Getgroups()
	if err != nil {
		log.Warn().Err(err).Msg("Error getting groups")
	} else {
		groupNames := make([]string, 0, len(groups))
		for _, gid := range groups {
			group, err := user.LookupGroupId(strconv.Itoa(gid))
			if err != nil {
				groupNames = append(groupNames, strconv.Itoa(gid)) // Append ID if name lookup fails
			} else {
				groupNames = append(groupNames, fmt.Sprintf("%s(%s)", group.Name, group.Gid))
			}
		}
		event = event.Strs("groups", groupNames)
	}
	event.Msg("Process")
}
