// Command pizzapos runs the pizza point-of-sale: the order workflows for
// customers, the kitchen and drivers, the reports, and the HTTP API.
//
//	pizzapos seed                                 # default demo users
//	pizzapos order place --user customer --type pickup --pizza cowabunga-classic:medium
//	pizzapos order advance ORD-... start-prep
//	pizzapos driver claim ORD-... --driver driver
//	pizzapos report daily --date 2026-05-04
//	pizzapos serve                                # HTTP API on APP_PORT
//
// Configuration comes from config/app.json, .env and PIZZAPOS_* environment
// variables; the global flags override them.
package main
