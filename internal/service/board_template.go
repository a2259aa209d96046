package service

import "clan-bingo/internal/model"

// DefaultTemplate 内置模板名
const DefaultTemplate = "default"

// squareTemplate 模板中的一格
type squareTemplate struct {
	Code        string
	Title       string
	Requirement string
}

// boardTemplates 内置棋盘模板（按 code 排序）
var boardTemplates = map[string][]squareTemplate{
	DefaultTemplate: {
		{"S01", "Came for the Loot / Stayed for the Copium", "1x Mega Rare"},
		{"S02", "Twisted Fate", "1x Elder Maul OR Kodai"},
		{"S03", "Batz and Grats", "Sang AND Rapier"},
		{"S04", "Wanna See a Magic Trick", "1x Dragon Hunter Wand AND 1x Twinflame Staff"},
		{"S05", "Out Of The Frying Pan Into..", "3x Delve Uniques"},
		{"S06", "It Burns When I PVM", "2x Any Burning Claw OR Synapses"},
		{"S07", "Mole-Tiple Companions", "Giant Mole AND Any 2 Pets"},
		{"S08", "Dust Off The Trim", "5x CM or HMT Kits OR Dusts"},
		{"S09", "Put Me Out Of My Masoriii", "4x ToA Uniques (Not Shadow or Pet)"},
		{"S10", "Peace Treaty II", "8x GWD Drops (from list)"},
		{"S11", "Blow This Pipe", "6x Zulrah Uniques (not onyx/jar/pet)"},
		{"S12", "Soul Returned", "7x Corp Uniques (not jar)"},
		{"S13", "Pet Dat Dawg", "All 3 Cerb Crystals"},
		{"S14", "Soul Snatched", "4x Any Soulreaper OR Virtus Pieces"},
		{"S15", "Lets Start With Some L Movement", "4x Justiciar Pieces"},
		{"S16", "The Best Defence is a Good Offense", "6x Avernics"},
		{"S17", "Nex On The Agenda", "4x Nex Uniques"},
		{"S18", "Episode I: The Fangtom Menace", "2x Araxyte Fangs"},
		{"S19", "Frodo Dropped The Ring", "All 4 DK Rings"},
		{"S20", "It Belongs in A Museum!", "3x Full Barrows Sets AND 4x Moons Pieces"},
		{"S21", "Wetter Dreams", "3x Nightmare Unique"},
		{"S22", "Toilet Paper Hoarding", "6x Prayer Scrolls"},
		{"S23", "Arachnophobia", "2x Sarachnis Cudgels"},
		{"S24", "Devils Advocate", "3x Yama Uniques"},
		{"S25", "Bop It! Twist It! Zen It!", "4x Zenyte Shards"},
		{"S26", "Are You NOT ENTERTAINED?", "15x Colo Uniques (Including Quiver)"},
		{"S27", "The Hunger Gamers", "Voidwaker From Scratch"},
		{"S28", "I've Got A Jar Of ...", "Any 2 Unique Jars"},
		{"S29", "Crystal Armoury", "4x Crystal Armour OR Enhanced Seeds"},
		{"S30", "Albus Dumbledore", "3x Ancestral Pieces"},
	},
}

// templateSquares 为队伍展开模板；未知模板返回 false
func templateSquares(name, teamID string) ([]model.Square, bool) {
	if name == "" {
		name = DefaultTemplate
	}
	tpl, ok := boardTemplates[name]
	if !ok {
		return nil, false
	}
	squares := make([]model.Square, 0, len(tpl))
	for _, t := range tpl {
		squares = append(squares, model.Square{
			TeamID:      teamID,
			Code:        t.Code,
			Title:       t.Title,
			Requirement: t.Requirement,
			Rules:       model.JSONMap{},
		})
	}
	return squares, true
}
