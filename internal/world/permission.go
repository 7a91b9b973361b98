package world

// Permission is a player permission tag. Only tier membership is modelled here.
type Permission string

const (
	PermAdministrator   Permission = "administrator"
	PermModerator       Permission = "moderator"
	PermIronman         Permission = "iron_man"
	PermHardcoreIronman Permission = "hardcore_iron_man"
	PermUltimateIronman Permission = "ultimate_iron_man"
)

// KnownPermissions lists every tag the permission service accepts.
var KnownPermissions = []Permission{
	PermAdministrator,
	PermModerator,
	PermIronman,
	PermHardcoreIronman,
	PermUltimateIronman,
}
