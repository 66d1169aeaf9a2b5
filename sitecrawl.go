// Package sitecrawl provides a resumable single-domain web crawler.
// Given a seed URL it follows hyperlinks confined to the seed's registrable
// domain, fetches each page once, and records the crawl frontier on disk
// after every page so an interrupted crawl can pick up where it stopped.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package sitecrawl
