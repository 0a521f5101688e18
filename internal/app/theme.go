package app

import "charm.land/lipgloss/v2"

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dividerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	tabStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	tabActiveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236")).Bold(true).Padding(0, 1)
	tabLoadingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Padding(0, 1)
	tabErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Padding(0, 1)
	tabDecorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	catalogStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	catalogOpenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	selectedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236"))
	roleUserStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	roleAgentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	roleSystemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	roleToolStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true)
	previewStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	errorTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	paneBorderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238"))
	paneActiveStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("75"))
	menuHeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("251")).Background(lipgloss.Color("235")).Bold(true)
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("239")).Bold(true)
	toastInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true)
	toastErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true)
)
