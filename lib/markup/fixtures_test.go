// Copyright 2026 The Pinder Authors
// SPDX-License-Identifier: Apache-2.0

package markup

const lobbyPage = `<html><body>
<div id="rooms">
  <div id="room_12345" class="room available shaded">
    <h2><a href="http://sample.campfirenow.com/room/12345">Room A</a></h2>
    <ul class="participant-list">
      <li class="user nubbin_region"><span>Tom Jones</span></li>
      <li class="user nubbin_region"><span>Gloria Estefan</span></li>
    </ul>
  </div>
  <div id="room_67890" class="room full">
    <h2>
      Room B
    </h2>
  </div>
  <div id="lobby_sidebar"><h2>Not a room</h2></div>
</div>
</body></html>`

const transcriptIndexPage = `<html><body>
<table>
  <tr class="transcript shaded"><td><a href="/room/12345/transcript/2001/09/11">Sep 11</a></td></tr>
  <tr class="transcript"><td><a href="/room/12345/transcript/2001/09/12">Sep 12</a></td></tr>
  <tr class="transcript"><td><a href="/room/67890/transcript/2008/02/29">Feb 29</a></td></tr>
  <tr class="transcript"><td><a href="/room/67890/files">no date</a></td></tr>
  <tr class="transcripts-header"><td><a href="/room/1/transcript/2000/01/01">header</a></td></tr>
</table>
</body></html>`

const transcriptPage = `<html><body>
<table class="chat">
  <tr class="timestamp_message message" id="message_100"><td class="time"><div>10:00 AM</div></td></tr>
  <tr class="text_message message user_4242" id="message_101">
    <td class="person"><span>Tom Jones</span></td>
    <td class="body"><div>It's not unusual</div></td>
  </tr>
  <tr class="enter_message message" id="message_102">
    <td class="person">Gloria Estefan</td>
    <td class="body"><div>has entered the room</div></td>
  </tr>
  <tr class="message" id="not_a_message_row"><td class="body"><div>skipped</div></td></tr>
</table>
</body></html>`

const roomPage = `<html><head><script type="text/javascript">
  chat = new Campfire.Chat({
    "membershipKey": "0123abcd",
    "userID": 4242,
    "lastCacheID": 987654,
    "timestamp": 1199145600
  });
</script></head><body>
<h2 id="topic">Release planning <span class="edit"><a href="#">change</a></span></h2>
<div id="guest_access_control"><h4>http://sample.campfirenow.com/99d14</h4></div>
</body></html>`

const roomPageNoGuest = `<script>
  {"membershipKey": "ffee", "userID": 1, "lastCacheID": 2, "timestamp": 3}
</script>
<div id="guest_access_control"><p>Guest access is off</p></div>`

const pollResponse = "try {\r\n" +
	`chat.poller.lastCacheID = 987700;` + "\r\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"timestamp_message message\" id=\"message_987698\"\u003E\u003Ctd class=\"time\"\u003E10:00\u003C/td\u003E\u003C/tr\u003E");` + "\r\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"text_message message user_4242\" id=\"message_987699\"\u003E\u003Ctd class=\"person\"\u003E\u003Cspan\u003ETom Jones\u003C/span\u003E\u003C/td\u003E\u003Ctd class=\"body\"\u003E\u003Cdiv\u003Efish \u0026amp; chips\u003C/div\u003E\u003C/td\u003E\u003C/tr\u003E");` + "\r\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"text_message message user_77\" id=\"message_987700\"\u003E\u003Ctd class=\"person\"\u003EGloria\u003C\/td\u003E\u003Ctd class=\"body\"\u003E\u003Cdiv\u003Ehi\u003C\/div\u003E\u003C\/td\u003E\u003C\/tr\u003E");` + "\r\n" +
	`chat.transcript.queueMessage("\u003Ctr class=\"enter_message message\" id=\"message_987701\"\u003E\u003C/tr\u003E");` + "\r\n" +
	"} catch(e) {}\r\n"
