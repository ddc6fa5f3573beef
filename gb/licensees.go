package gb

// oldLicensees is the legacy single byte publisher table, only used before
// the Game Boy Color. Names are transcribed as found in the wild, typos
// included: they are opaque labels and nothing depends on their spelling.
var oldLicensees = map[byte]string{
	0x00: "None",
	0x01: "Nintendo",
	0x08: "Capcom",
	0x09: "Hot-B",
	0x0A: "Jaleco",
	0x0B: "Coconuts",
	0x0C: "Elite Systems",
	0x13: "Electronic Arts",
	0x18: "Hudsonsoft",
	0x19: "ITC Entertainment",
	0x1A: "Yanoman",
	0x1D: "Clary",
	0x1F: "Virgin",
	0x20: "KSS",
	0x24: "PCM Complete",
	0x25: "San-X ",
	0x28: "Kotobuki Systems ",
	0x29: "Seta",
	0x30: "Infogrames",
	0x31: "Nintendo",
	0x32: "Bandai",
	0x33: "USES NEW LIC CODE (GBC)",
	0x34: "Konami",
	0x35: "Hector",
	0x38: "Capcom",
	0x39: "Banpresto",
	0x3C: "*Entertainment i",
	0x3E: "Gremlin",
	0x41: "Ubisoft",
	0x42: "Atlus",
	0x44: "Malibu",
	0x46: "Angel",
	0x47: "Spectrum Holobyte",
	0x49: "IREM",
	0x4A: "Virgin",
	0x4D: "mMalibu",
	0x4F: "U.S Gold",
	0x50: "Absolute",
	0x51: "Acclaim",
	0x52: "Activision",
	0x53: "American Sammy",
	0x54: "Gametek",
	0x55: "Park Plac",
	0x56: "LJN",
	0x57: "Matchbox",
	0x59: "Milton Bradley",
	0x5A: "Mindscape",
	0x5B: "Romstar",
	0x5C: "Naxat Soft",
	0x5D: "Tradewest",
	0x60: "Titus",
	0x61: "Virgin",
	0x67: "Ocean",
	0x69: "Electronic Arts",
	0x6B: "Laser Beam Entertainment",
	0x6E: "Elite Systems",
	0x6F: "Electro Brain",
	0x70: "Infogrammes",
	0x71: "Interplay",
	0x72: "Broderbund",
	0x73: "Sculptered Soft",
	0x75: "The Sales Curve",
	0x78: "THQ",
	0x79: "Accolade",
	0x7A: "Triffix Entertainment",
	0x7C: "Microprose",
	0x7F: "Kemco",
	0x80: "Misawa Entertainment",
	0x83: "LOZC",
	0x86: "Tokuma sShoten Intermedia",
	0x8B: "Bullet-Proof Aoftware",
	0x8C: "Vic Tokai",
	0x8E: "APE",
	0x8F: "I'MAX",
	0x91: "Chun Soft",
	0x92: "Video System",
	0x93: "Tsuburava",
	0x95: "Varie",
	0x96: "Yonezawas Pal",
	0x97: "Kaneko",
	0x99: "Arc",
	0x9A: "Nihon Bussan",
	0x9B: "Tecmo",
	0x9C: "Imagineer",
	0x9D: "Banpresto",
	0x9F: "Nova",
	0xA1: "Hori Electric",
	0xA2: "Bandai",
	0xA4: "Konami",
	0xA6: "Kawada",
	0xA7: "Takara",
	0xA9: "Technos Japan",
	0xAA: "Broderbund",
	0xAC: "Toei Animation",
	0xAD: "Toho",
	0xAF: "Namco",
	0xB0: "Acclaim",
	0xB1: "ascii or nexoft",
	0xB2: "Bandai",
	0xB4: "Enix",
	0xB6: "HAL",
	0xB7: "SNK",
	0xB9: "Pony Canyon",
	0xBA: "Culture Brain",
	0xBB: "Sunsoft",
	0xBD: "Sony Imagesoft",
	0xBF: "Sammy",
	0xC0: "Taito",
	0xC2: "Kemco",
	0xC3: "Squaresoft",
	0xC4: "Tokuma Shoten Intermedia",
	0xC5: "Data East",
	0xC6: "Tonkin house",
	0xC8: "Koei",
	0xC9: "UFL",
	0xCA: "Ultra",
	0xCB: "Vap",
	0xCC: "Use",
	0xCD: "Meldac",
	0xCE: "Pony Canyon",
	0xCF: "Angel",
	0xD0: "Taito",
	0xD1: "Sofel",
	0xD2: "Quest",
	0xD3: "Sigma Enterprises",
	0xD4: "Ask Kodansha",
	0xD6: "Naxat Aoft",
	0xD7: "Copya Aystems",
	0xD9: "Banpresto",
	0xDA: "Tomy",
	0xDB: "LJN",
	0xDD: "NCS",
	0xDE: "Human",
	0xDF: "Altron",
	0xE0: "Jaleco",
	0xE1: "Towachiki",
	0xE2: "Uutaka",
	0xE3: "Barie",
	0xE5: "Epoch",
	0xE7: "Athena",
	0xE8: "Asmik",
	0xE9: "Natsume",
	0xEA: "King Records",
	0xEB: "Atlus",
	0xEC: "Epic/Sony records",
	0xEE: "IGS",
	0xF0: "a wave",
	0xF3: "Extreme Entertainment",
	0xFF: "LJN",
}

// newLicensees is the two character publisher table introduced with the
// Game Boy Color, selected by the 0x33 sentinel in the legacy field. Many
// codes remain unpopulated.
var newLicensees = map[string]string{
	"00": "none",
	"01": "Nintendo R&D1",
	"08": "Capcom",
	"13": "Electronic Arts",
	"18": "Hudson Soft",
	"19": "B-AI",
	"20": "KSS",
	"22": "POW",
	"24": "PCM Complete",
	"25": "San-X",
	"28": "Kemco Japan",
	"29": "Seta",
	"30": "Viacom",
	"31": "Nintendo",
	"32": "Bandai",
	"33": "Ocean/Acclaim",
	"34": "Konami",
	"35": "Hector",
	"37": "Taito",
	"38": "Hudson",
	"39": "Banpresto",
	"41": "UbiSoft",
	"42": "Atlus",
	"44": "Malibu",
	"46": "Angel",
	"47": "Bullet-Proof",
	"49": "IREM",
	"4D": "Nintendo",
	"50": "Absolute",
	"51": "Acclaim",
	"52": "Activision",
	"53": "American Sammy",
	"54": "Konami",
	"55": "Hi Tech Entertainment",
	"56": "LJN",
	"57": "Matchbox",
	"58": "Mattel",
	"59": "Milton Bradley",
	"5A": "Mindscape",
	"5G": "Majesco",
	"5K": "Hasbro Interactive",
	"5Q": "Lego",
	"60": "Titus",
	"61": "Virgin",
	"64": "LucasArts",
	"67": "Ocean",
	"69": "Electronic Arts",
	"6L": "Bay Area Multimedia (BAM) Entertainment",
	"70": "Infogrames",
	"71": "Interplay",
	"72": "Broderbund",
	"73": "Sculptured",
	"75": "SCI",
	"78": "THQ",
	"79": "Accolade",
	"7F": "Kemco",
	"80": "Misawa",
	"83": "LOZC",
	"86": "Tokuma Shoten",
	"87": "Tsukuda Ori",
	"91": "Chunsoft",
	"92": "Video System",
	"93": "Ocean/Acclaim",
	"95": "Varie",
	"96": "Yonezawas Pal",
	"97": "Kaneko",
	"99": "Pack In Soft",
	"A4": "Konami",
	"BB": "Sunsoft",
	"E9": "Victor Interactive Software",
}
