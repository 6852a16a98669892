// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TileMUD Contributors

package core_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/tilemud/tilemud/internal/access"
	"github.com/tilemud/tilemud/internal/core"
	"github.com/tilemud/tilemud/internal/world"
)

// player is a logged-in client of a running engine.
type player struct {
	client core.Client
	inbox  <-chan string
}

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		cancel context.CancelFunc
		w      *world.World
		outbox *core.Outbox
		engine *core.Engine
		done   chan error
		square *world.Entity
		cave   *world.Entity
	)

	login := func(name string) player {
		GinkgoHelper()
		p := player{client: core.Client{ID: core.NewULID()}}
		p.inbox = outbox.Subscribe(p.client.ID)
		_, err := engine.Login(ctx, p.client, name)
		Expect(err).NotTo(HaveOccurred())
		Eventually(p.inbox).Should(Receive(HavePrefix("Square")))
		return p
	}

	send := func(p player, line string) {
		GinkgoHelper()
		Expect(engine.Submit(ctx, p.client.ID, line)).To(Succeed())
	}

	characterOf := func(p player) *world.Entity {
		GinkgoHelper()
		id, ok := engine.Sessions().CharacterFor(p.client.ID)
		Expect(ok).To(BeTrue())
		ent, ok := w.Get(id)
		Expect(ok).To(BeTrue())
		return ent
	}

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		w = world.New()

		var err error
		square, err = w.AddTile(world.ZoneVoid, world.Coords{}, world.Tile{
			Name:        "Square",
			Description: "A cobbled square.",
			Sprite:      ".",
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = w.AddTile(world.ZoneVoid, world.Coords{X: 1}, world.Tile{Name: "Market", Sprite: "$"})
		Expect(err).NotTo(HaveOccurred())
		_, err = w.AddTile(world.ZoneVoid, world.Coords{Y: -1}, world.Tile{Name: "Wall", Impassable: true})
		Expect(err).NotTo(HaveOccurred())
		cave, err = w.AddTile(world.ZoneMovement, world.Coords{Z: -1}, world.Tile{
			Name:        "Cave",
			Description: "Water drips somewhere.",
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = w.AddTransition(square.ID, world.Transition{Tags: []string{"cave"}, Zone: world.ZoneMovement, Coords: world.Coords{Z: -1}})
		Expect(err).NotTo(HaveOccurred())
		for range 2 {
			_, err = w.AddItem(square.ID, world.Item{Name: "stick", Tags: []string{"wood"}}, true)
			Expect(err).NotTo(HaveOccurred())
		}

		grants, err := access.NewGrants([]access.Grant{{Pattern: "Wizard", Permissions: []string{"teleport"}}})
		Expect(err).NotTo(HaveOccurred())

		outbox = core.NewOutbox(0)
		engine, err = core.NewEngine(w, outbox, core.Config{TickRate: 200, Spawn: square.Position},
			core.WithGrants(grants))
		Expect(err).NotTo(HaveOccurred())

		done = make(chan error, 1)
		go func() { done <- engine.Run(ctx) }()
	})

	AfterEach(func() {
		cancel()
		Eventually(done).WithTimeout(2 * time.Second).Should(Receive(BeNil()))
	})

	It("picks up every matching item with take all", func() {
		ada := login("Ada")
		send(ada, "take all stick")
		Eventually(ada.inbox).Should(Receive(Equal("You take 2 sticks.")))

		inv, ok := w.InventoryOf(characterOf(ada).ID)
		Expect(ok).To(BeTrue())
		Expect(w.Children(inv.ID)).To(HaveLen(2))
	})

	It("walks between tiles and refuses blocked paths", func() {
		ada := login("Ada")
		send(ada, "north")
		Eventually(ada.inbox).Should(Receive(Equal("Something blocks your path.")))
		send(ada, "e")
		Eventually(ada.inbox).Should(Receive(Equal("Market")))
		Expect(characterOf(ada).Position.Coords).To(Equal(world.Coords{X: 1}))
	})

	It("enters a transition into another zone", func() {
		ada := login("Ada")
		send(ada, "enter cave")
		Eventually(ada.inbox).Should(Receive(Equal("Cave\nWater drips somewhere.")))
		Expect(characterOf(ada).Position).To(Equal(cave.Position))
	})

	It("only lets permitted characters teleport", func() {
		ada := login("Ada")
		wizard := login("Wizard")
		send(ada, "tp movement (0 0 1)")
		send(wizard, "tp movement (0 0 1)")
		send(ada, "who")

		Eventually(ada.inbox).Should(Receive(Equal("Online: Ada, Wizard")))
		Expect(characterOf(ada).Position).To(Equal(square.Position))
		Expect(characterOf(wizard).Position).To(Equal(world.Position{Zone: world.ZoneMovement, Coords: world.Coords{Z: 1}}))
	})

	It("draws the map centred on the player", func() {
		ada := login("Ada")
		send(ada, "map")
		Eventually(ada.inbox).Should(Receive(And(HavePrefix("void\n"), ContainSubstring("@$"))))
	})

	It("removes characters on logout", func() {
		ada := login("Ada")
		grace := login("Grace")
		charID := characterOf(ada).ID

		Expect(engine.Logout(ctx, ada.client.ID)).To(Succeed())
		send(grace, "who")
		Eventually(grace.inbox).Should(Receive(Equal("Online: Grace")))
		_, ok := w.Get(charID)
		Expect(ok).To(BeFalse())
	})
})
