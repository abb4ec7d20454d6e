package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"GuildBot/core"
	"GuildBot/core/dispatch"

	"github.com/bwmarrin/discordgo"
	"github.com/thoas/go-funk"
	"golang.org/x/time/rate"
)

const defaultAnimalAPI = "https://some-random-api.com"

// Names users type, mapped to the API's path segment.
var animals = map[string]string{
	"cat":      "cat",
	"dog":      "dog",
	"bird":     "bird",
	"panda":    "panda",
	"fox":      "fox",
	"kangaroo": "kangaroo",
	"raccoon":  "raccoon",
	"redpanda": "red_panda",
}

func init() {
	register(func(deps *Deps) []*dispatch.Descriptor {
		return []*dispatch.Descriptor{{
			Trigger:    "random",
			Aliases:    []string{"animal"},
			Help:       "Show image of random animal. Space in *red panda* is optional.",
			Usage:      "random <animal>",
			Module:     dispatch.ModuleFun,
			Permission: dispatch.PermissionNode{Node: "random", Default: true},
			Run:        deps.randomAnimal,
		}}
	})
}

func (deps *Deps) randomAnimal(_ *discordgo.Member, ctx *dispatch.Context) error {
	known := funk.Keys(animals).([]string)
	if len(ctx.Args) == 0 {
		ctx.Reply("I know of the following random images: %s.", strings.Join(sortedCopy(known), ", ")).Discard()
		return nil
	}
	name := strings.ToLower(strings.Join(ctx.Args, ""))
	path, ok := animals[name]
	if !ok {
		ctx.ReplyWarning("%s is an unknown animal.", ctx.Rest(0)).Discard()
		return nil
	}

	type animalModel struct {
		Url  string `json:"image"`
		Fact string `json:"fact"`
	}
	if deps.AnimalRate != nil && !deps.AnimalRate.Allow() {
		ctx.ReplyWarning("Too many animals lately, try again in a little while.").Discard()
		return nil
	}
	base := deps.AnimalAPI
	if base == "" {
		base = defaultAnimalAPI
	}
	res, err := deps.httpClient().Get(fmt.Sprintf("%s/animal/%s", base, path))
	if err != nil {
		core.LogError("Failed to get animal: ", err)
		ctx.ReplyWarning("Unfortunately, I failed to find a random %s for you today. :-(", name).Discard()
		return nil
	}
	defer res.Body.Close()

	var model animalModel
	if err := json.NewDecoder(res.Body).Decode(&model); err != nil || res.StatusCode != http.StatusOK || len(model.Url) == 0 {
		core.LogErrorF("Failed to parse %s response (status %d): %v", path, res.StatusCode, err)
		ctx.ReplyWarning("The %s were not parsable today. :-(", name).Discard()
		return nil
	}
	if model.Fact != "" {
		ctx.Reply("%s\n\n%s", model.Fact, model.Url).Discard()
	} else {
		ctx.Reply("%s", model.Url).Discard()
	}
	return nil
}

// NewAnimalLimiter allows burst requests and then one every interval.
func NewAnimalLimiter(interval time.Duration, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(interval), burst)
}

func (deps *Deps) httpClient() *http.Client {
	if deps.HTTP != nil {
		return deps.HTTP
	}
	return http.DefaultClient
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
